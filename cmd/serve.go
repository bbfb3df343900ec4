package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/commcap/prospector/internal/billing"
	"github.com/commcap/prospector/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		pipe, pl, orgs := newPipeline()

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		srv := server.New(serverCfg, st, pl, orgs, pipe,
			billing.NewCheckout(cfg.Stripe),
			billing.NewWebhookProcessor(st, cfg.Stripe.WebhookSecret),
		)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
