package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	schemaapi "github.com/powergen-lab/powergen-etl/internal/schema/api"
	"github.com/powergen-lab/powergen-etl/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ingestion API",
		Long: `Serve POST /v1/sources/:source/records, GET /v1/stats, the read-only
/v1/schemas catalogue, GET /health and, when metrics are enabled, GET /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := a.prepareSchema(ctx, store); err != nil {
				return err
			}

			var metricsHandler http.Handler
			if a.metrics != nil {
				metricsHandler = a.metrics.Handler()
			}

			srv := server.New(server.Options{
				Addr:    fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
				Mode:    a.cfg.Server.Mode,
				Health:  store,
				Metrics: metricsHandler,
				Routes: []server.RouteRegistrar{
					a.newService(store),
					schemaapi.NewService(a.registry, a.engine.Validator()),
				},
			})

			// Blocks until a signal cancels ctx.
			return srv.Run(ctx)
		},
	}
}
