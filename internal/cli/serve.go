package cli

import (
	"github.com/spf13/cobra"

	"github.com/tablemind-ai/tablemind/internal/agent"
	"github.com/tablemind-ai/tablemind/internal/channels"
	"github.com/tablemind-ai/tablemind/internal/runtime"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser chat UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			listenAddr := a.cfg.Web.ListenAddr
			if addr != "" {
				listenAddr = addr
			}

			listener := &channels.WebListener{
				Addr:      listenAddr,
				OutputDir: a.cfg.OutputDir(),
				// Each browser connection gets an isolated, in-memory session.
				NewHandler: func() (runtime.Handler, error) {
					sess, err := a.newSession(nil)
					if err != nil {
						return nil, err
					}
					return agent.NewHandler(sess, nil)
				},
			}
			return listener.Listen(ctx, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides web.listen_addr)")
	return cmd
}
