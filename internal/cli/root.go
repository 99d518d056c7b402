// Package cli wires Cobra subcommands to application dependencies; it is a
// thin controller with no business logic.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tablemind-ai/tablemind/internal/bootstrap"
	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/logging"
)

// NewRootCmd creates the root command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "tablemind",
		Short: "TableMind: conversational analysis for CSV data",
		// Let main handle fatal error rendering through structured logs.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				logging.SetLevel(slog.LevelInfo)
			} else {
				logging.SetLevel(slog.LevelWarn)
			}

			// The config command only reads and prints merged config and
			// should not touch the data tree.
			if cmd.Name() == "config" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return bootstrap.Initialize(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `tablemind chat` when no subcommand is provided.
			chatCmd, _, err := cmd.Find([]string{"chat"})
			if err != nil {
				return err
			}
			chatCmd.SetContext(cmd.Context())
			return chatCmd.RunE(chatCmd, args)
		},
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newChatCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (info level)")

	return root
}
