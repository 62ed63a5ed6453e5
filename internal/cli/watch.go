package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/debounce"
	"github.com/humblebanana/md2chat/errors"
)

func newWatchCmd(g *globals) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a file whenever it changes",
		Long: `Watch re-renders a Markdown file after edits to it settle.
Bursts of changes are collapsed using the configured debounce delay.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			input := args[0]

			if flags.output == "-" {
				return errors.New(errors.ErrCodeInvalidInput, "watch needs an output file")
			}
			format, err := flags.resolveFormat()
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			assets, err := newAssets(ctx, cfg, baseDirOf(input), logger, flags.noImages)
			if err != nil {
				return err
			}
			if assets != nil {
				defer assets.Close()
			}
			opts.Assets = assets
			opts.Logger = logger
			if opts.FontSet, err = md2chat.NewFontSet(opts.Fonts); err != nil {
				return err
			}

			rebuild := func(reason string) {
				prog := newProgress(logger)
				if err := renderFile(ctx, input, flags.output, format, opts); err != nil {
					logger.Error("render failed", "err", err)
					return
				}
				prog.done("rendered", "reason", reason, "output", flags.output)
			}

			rebuild("start")
			d := debounce.New(cfg.Debounce, rebuild)
			defer d.Stop()

			printInfo(cmd.OutOrStdout(), "watching %s (ctrl-c to stop)", input)
			err = watchFile(ctx, input, logger, func() { d.Trigger("change") })
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func renderFile(ctx context.Context, input, output, format string, opts md2chat.RenderOptions) error {
	text, err := readInput(input, nil)
	if err != nil {
		return err
	}
	// product images may have changed on disk
	if opts.Assets != nil {
		opts.Assets.Reset()
	}
	p := md2chat.Build(text, md2chat.BuildOptions{Catalog: opts.Catalog})
	return writeOutput(ctx, output, nil, p, format, opts)
}

// watchFile calls onChange each time path is written, created or renamed
// into place, until ctx is done. The parent directory is watched so editors
// that save by renaming a temp file over path are still seen.
func watchFile(ctx context.Context, path string, logger *log.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&changed == 0 {
				continue
			}
			logger.Debug("file changed", "path", path, "op", ev.Op)
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "path", path, "err", err)
		}
	}
}
