package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/asset"
	"github.com/ideaspark/wireframe/internal/editor"
	mcpserver "github.com/ideaspark/wireframe/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var assets string

	cmd := &cobra.Command{
		Use:   "mcp [document]",
		Short: "Serve a document file to an MCP client over stdio",
		Long: `Mcp opens the document (creating an empty one on first save when the file does
not exist) and exposes the editor commands as MCP tools on stdin/stdout.
Unsaved changes are written back when the client disconnects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			ctrl, err := openFileController(cmd, args[0], assets)
			if err != nil {
				return err
			}

			logger.Info("mcp server starting", "document", args[0])
			serveErr := mcpserver.New(ctrl, version).ServeStdio()

			if ctrl.Dirty() {
				if err := ctrl.SaveDocument(ctx); err != nil {
					return errors.Join(serveErr, err)
				}
			}
			return serveErr
		},
	}

	cmd.Flags().StringVar(&assets, "assets", "", "directory holding uploaded images")
	return cmd
}

// openFileController creates a controller persisted to path, loading the
// file when it exists.
func openFileController(cmd *cobra.Command, path, assets string) (*editor.Controller, error) {
	ctx := cmd.Context()
	opts := settingsFromContext(ctx).EditorOptions(path)
	opts.Persister = filePersister{}
	if assets != "" {
		opts.Resolver = asset.NewHandler(assets)
	}

	ctrl, err := editor.New(opts)
	if err != nil {
		return nil, err
	}
	if err := ctrl.LoadDocument(ctx); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return ctrl, nil
}
