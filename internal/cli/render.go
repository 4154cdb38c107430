package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/asset"
	"github.com/ideaspark/wireframe/internal/render"
	"github.com/ideaspark/wireframe/internal/scene"
)

const (
	formatPNG  = "png"
	formatJSON = "json" // draw command list
)

type renderOpts struct {
	output string
	scale  float64
	format string
	assets string // directory of uploaded images
	grid   bool   // draw the settings grid
}

func newRenderCmd() *cobra.Command {
	opts := renderOpts{scale: 1, format: formatPNG}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a document to PNG or a draw command list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format extension)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "pixels per canvas unit (0 < scale <= 4)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, json")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "directory holding uploaded images")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the configured grid (json only)")

	return cmd
}

func validateRenderOpts(opts *renderOpts) error {
	switch opts.format {
	case formatPNG, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (use png or json)", opts.format)
	}
	if opts.scale <= 0 || opts.scale > 4 {
		return fmt.Errorf("scale %v out of range (0, 4]", opts.scale)
	}
	return nil
}

// outputExt keeps JSON command lists from overwriting the input document.
func outputExt(format string) string {
	if format == formatJSON {
		return "commands.json"
	}
	return format
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := readScene(input)
	if err != nil {
		return err
	}

	data, err := renderScene(ctx, s, opts)
	if err != nil {
		return err
	}

	out := outputPath(opts.output, input, outputExt(opts.format))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", out))
	return nil
}

func renderScene(ctx context.Context, s scene.Scene, opts *renderOpts) ([]byte, error) {
	if opts.format == formatJSON {
		var overlay render.Overlay
		if opts.grid {
			cell, err := settingsFromContext(ctx).Cell()
			if err != nil {
				return nil, err
			}
			overlay.GridSize = cell
		}
		out, err := render.ToJSON(render.Compile(s, overlay))
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}

	ropts := render.Options{Scale: opts.scale}
	if opts.assets != "" {
		ropts.Resolver = asset.NewHandler(opts.assets)
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, s, ropts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
