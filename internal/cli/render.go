package cli

import (
	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat"
)

func newRenderCmd(g *globals) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render Markdown to an image, HTML page or JSON layout",
		Long: `Render reads Markdown from a file (or stdin) and writes the phone preview.
The output format follows --format, or the extension of --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			input := inputArg(args)

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
			text, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			assets, err := newAssets(ctx, cfg, baseDirOf(input), logger, flags.noImages)
			if err != nil {
				return err
			}
			if assets != nil {
				defer assets.Close()
			}
			opts.Assets = assets
			opts.Logger = logger

			p := md2chat.Build(text, md2chat.BuildOptions{Catalog: opts.Catalog})
			for _, el := range p.Unmapped() {
				logger.Warn("element has no region and was skipped", "id", el.Ident(), "type", el.Type())
			}
			for _, el := range p.Overflowing() {
				logger.Warn("element overflows its region", "id", el.ID, "area", el.TargetArea)
			}

			if err := writeOutput(ctx, flags.output, cmd.OutOrStdout(), p, format, opts); err != nil {
				return err
			}
			prog.done("rendered", "elements", len(p.Elements), "format", format)
			if flags.output != "-" {
				printFile(cmd.OutOrStdout(), format, flags.output)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
