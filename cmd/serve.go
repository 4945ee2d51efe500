package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/llm-translate/internal/server"
	"github.com/spf13/cobra"
)

func NewServeCmd(opts *appOptions, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, *opts)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			srv := server.New(app.Config, app.Logger, app.Service, app.Settings, version)
			return srv.Run(ctx)
		},
	}
}
