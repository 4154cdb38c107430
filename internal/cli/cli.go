// Package cli implements the wireframe command-line interface.
//
// The commands work on document files directly: render rasterizes a
// document, validate checks documents and projects, seed turns a sitemap
// into a project directory, codegen prints the JSX view, schema prints the
// JSON Schema, watch re-renders on change, mcp serves a document to an MCP
// client over stdio and serve runs the HTTP server.
//
// All commands support --verbose (-v) for debug-level logging. The logger
// and the editor settings are passed to commands through context.Context.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the wireframe CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbose      bool
		settingsPath string
	)

	root := &cobra.Command{
		Use:          "wireframe",
		Short:        "Wireframe builds and renders page wireframes",
		Long:         `Wireframe is a CLI for rendering, validating and generating wireframe documents, and for serving them to editors and agents.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			slog.SetDefault(slog.New(logger))

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			logger.Debug("settings loaded", "path", settingsPath, "grid", settings.GridPreset, "device", settings.Device)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = withLogger(ctx, logger)
			ctx = withSettings(ctx, settings)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("wireframe %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&settingsPath, "settings", defaultSettingsPath(), "editor settings file (TOML)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newCodegenCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newServeCmd())

	return root
}

func defaultSettingsPath() string {
	if p := os.Getenv("WIREFRAME_SETTINGS_FILE"); p != "" {
		return p
	}
	return "wireframe.toml"
}
