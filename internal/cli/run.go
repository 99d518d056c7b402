package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ask a single question and print the answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				return fmt.Errorf("prompt is required (use -p)")
			}
			return runOnce(cmd.Context(), prompt, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Question to ask about the CSV data")
	return cmd
}

// runOnce answers one question in a fresh session with no persisted history.
func runOnce(ctx context.Context, prompt string, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	sess, err := a.newSession(nil)
	if err != nil {
		return err
	}

	outcome, err := sess.SubmitTurn(ctx, prompt)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, outcome.Answer)
	return err
}
