package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tablemind-ai/tablemind/internal/agent"
	"github.com/tablemind-ai/tablemind/internal/channels"
	"github.com/tablemind-ai/tablemind/internal/session"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			// The CLI channel keeps one persistent conversation across runs.
			store := session.New(a.cfg.CLISessionPath())
			history, err := store.Load(ctx)
			if err != nil {
				return err
			}

			sess, err := a.newSession(history)
			if err != nil {
				return err
			}
			handler, err := agent.NewHandler(sess, store)
			if err != nil {
				return err
			}

			return channels.NewCLI(os.Stdin, os.Stdout).Listen(ctx, handler)
		},
	}
}
