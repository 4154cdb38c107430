package cli

import (
	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/config"
	"github.com/ideaspark/wireframe/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}

			settings := settingsFromContext(ctx)
			if !cmd.Flags().Changed("settings") {
				if settings, err = config.LoadSettings(cfg.SettingsFile); err != nil {
					return err
				}
			}

			srv, err := server.New(cfg, settings)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default: WIREFRAME_PORT or 8080)")
	return cmd
}
