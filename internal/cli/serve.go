package cli

import (
	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat/internal/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr     string
		noImages bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse, layout and render API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			assets, err := newAssets(ctx, cfg, "", logger, noImages)
			if err != nil {
				return err
			}
			if assets != nil {
				defer assets.Close()
			}

			srv, err := server.New(cfg, assets, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "draw placeholders instead of loading product images")
	return cmd
}
