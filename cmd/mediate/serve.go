package main

import (
	"gomediate/internal/api"
	"gomediate/internal/config"

	"github.com/spf13/cobra"
)

func newServeCmd(globals *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bootstrap API over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  POST /api/v1/bootstrap  run a bootstrap from paths+covariance or data+variables
  GET  /healthz           liveness
  GET  /metrics           Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(globals, config.Overrides{Addr: addr})
			if err != nil {
				return err
			}
			defer c.Close()

			server := api.NewServer(c.Config.Server, c.Config.Bootstrap, c.Service, c.Registry, c.Log)
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	return cmd
}
