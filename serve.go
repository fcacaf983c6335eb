package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"fretnote/debug"
	"fretnote/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr    string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve training sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			defer debug.Disable()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cmd.Printf("fretnote serving on %s\n", addr)
			return server.New(cfg.Trainer, origins).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "origin", []string{"*"}, "allowed CORS origins")
	return cmd
}
