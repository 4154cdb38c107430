package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 150 * time.Millisecond

func newWatchCmd() *cobra.Command {
	opts := renderOpts{scale: 1, format: formatPNG}

	cmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Re-render a document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			return runWatch(cmd.Context(), args[0], &opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format extension)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "pixels per canvas unit (0 < scale <= 4)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, json")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "directory holding uploaded images")

	return cmd
}

// runWatch renders input once and again after every burst of writes, until
// ctx is cancelled. rendered, when set, is called after each render.
// Render failures are logged and do not stop the watch.
func runWatch(ctx context.Context, input string, opts *renderOpts, rendered func(error)) error {
	logger := loggerFromContext(ctx)

	absPath, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory and filter.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	var mu sync.Mutex
	renderOnce := func() {
		mu.Lock()
		defer mu.Unlock()
		err := runRender(ctx, input, opts)
		if err != nil {
			logger.Error("render failed", "file", input, "err", err)
		}
		if rendered != nil {
			rendered(err)
		}
	}

	renderOnce()
	logger.Info("watching", "file", input)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("change detected", "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, renderOnce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("events dropped, re-rendering")
				go renderOnce()
				continue
			}
			logger.Error("watcher error", "err", err)
		}
	}
}
