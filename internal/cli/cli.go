// Package cli implements the md2chat command-line interface.
//
// # Commands
//
//   - render: Markdown to PNG, JPEG, HTML or JSON
//   - inspect: list parsed elements with their regions and positions
//   - validate: report suspicious Markdown
//   - watch: re-render a file whenever it changes
//   - serve: run the HTTP API
//   - version: print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed to commands through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/cache"
	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/htmlout"
	"github.com/humblebanana/md2chat/internal/buildinfo"
	"github.com/humblebanana/md2chat/internal/config"
)

// Execute runs the md2chat CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// globals are the persistent flags shared by every command.
type globals struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:          "md2chat",
		Short:        "md2chat previews chat-style Markdown on a phone canvas",
		Long:         `md2chat parses the Markdown subset used by shopping assistants (headings, lists, tables, quotes, product cards and click text), lays it out on a fixed 374x2250 phone canvas and exports PNG, JPEG, HTML or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "config file (.toml, .yaml)")

	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newInspectCmd(g))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newWatchCmd(g))
	root.AddCommand(newServeCmd(g))
	root.AddCommand(newVersionCmd())

	return root
}

func (g *globals) loadConfig() (*config.Config, error) {
	return config.Load(g.configPath)
}

// renderFlags are shared by render and watch.
type renderFlags struct {
	output   string
	format   string
	theme    string
	scale    float64
	bounds   bool
	noImages bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "out.png", "output file, or - for stdout")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "png, jpg, html or json (default: from output extension)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "light or dark (overrides config)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "device pixel ratio (overrides config)")
	cmd.Flags().BoolVar(&f.bounds, "bounds", false, "outline regions and element boxes")
	cmd.Flags().BoolVar(&f.noImages, "no-images", false, "draw placeholders instead of loading product images")
}

// resolveFormat picks the output format from the flag or the output
// extension.
func (f *renderFlags) resolveFormat() (string, error) {
	format := strings.ToLower(strings.TrimSpace(f.format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(f.output)), ".")
	}
	if format == "" {
		format = "png"
	}
	if err := errors.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// options merges flags over config.
func (f *renderFlags) options(cfg *config.Config) (md2chat.RenderOptions, error) {
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if f.scale > 0 {
		cfg.Scale = f.scale
	}
	if f.bounds {
		cfg.ShowBounds = true
	}
	if err := cfg.Validate(); err != nil {
		return md2chat.RenderOptions{}, err
	}
	return cfg.RenderOptions()
}

// newAssets builds the product image loader, or nil when images are off.
func newAssets(ctx context.Context, cfg *config.Config, baseDir string, logger *log.Logger, disabled bool) (*md2chat.Assets, error) {
	if disabled {
		return nil, nil
	}
	c, err := cache.New(ctx, cfg.CacheOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "asset cache")
	}
	return md2chat.NewAssets(
		md2chat.WithCache(c),
		md2chat.WithTTL(cfg.Cache.TTL),
		md2chat.WithBaseDir(baseDir),
		md2chat.WithLogger(logger),
	), nil
}

// readInput reads a file, or stdin for "" and "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	text := string(data)
	if err := errors.ValidateDocument(text); err != nil {
		return "", err
	}
	return text, nil
}

// export writes p in format to w.
func export(ctx context.Context, w io.Writer, p *md2chat.Preview, format string, opts md2chat.RenderOptions) error {
	switch format {
	case "json":
		return md2chat.EncodeJSON(w, p)
	case "html":
		return htmlout.Write(w, p, htmlout.Options{
			Theme:       opts.Theme,
			ShowBounds:  opts.ShowBounds,
			Clock:       opts.Clock,
			Placeholder: opts.Placeholder,
		})
	default:
		img, err := p.Rasterize(ctx, opts)
		if err != nil {
			return err
		}
		return md2chat.EncodeImage(w, img, format)
	}
}

// writeOutput runs export into path, or stdout for "-".
func writeOutput(ctx context.Context, path string, stdout io.Writer, p *md2chat.Preview, format string, opts md2chat.RenderOptions) error {
	if path == "-" {
		return export(ctx, stdout, p, format, opts)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := export(ctx, f, p, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func baseDirOf(input string) string {
	if input == "" || input == "-" {
		return ""
	}
	return filepath.Dir(input)
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
