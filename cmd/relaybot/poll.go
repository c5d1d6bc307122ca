package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"telegram-ai-relay/internal/httpserver"
)

func newPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Receive updates with getUpdates long polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configFlag(cmd))
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info(ctx, "Starting Telegram AI relay (polling)...")
			a.logger.Infof(ctx, "Environment: %s", a.cfg.Environment.Name)

			if err := a.build(ctx); err != nil {
				a.logger.Errorf(ctx, "Failed to initialize: %v", err)
				return err
			}
			handler := a.telegramHandler(ctx)

			// Health routes only; the webhook route is not registered.
			srv, err := httpserver.New(a.logger, httpserver.Config{
				Logger:      a.logger,
				Port:        a.cfg.HTTPServer.Port,
				Mode:        a.cfg.HTTPServer.Mode,
				Environment: a.cfg.Environment.Name,
				ReadyChecks: a.readyChecks(),
			})
			if err != nil {
				a.logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
				return err
			}

			srvErr := make(chan error, 1)
			go func() {
				err := srv.Run(ctx)
				if err != nil {
					a.logger.Errorf(ctx, "Failed to run server: %v", err)
					stop()
				}
				srvErr <- err
			}()

			if err := handler.Poll(ctx); err != nil {
				a.logger.Errorf(ctx, "Polling stopped: %v", err)
			}
			stop()
			if err := <-srvErr; err != nil {
				return err
			}

			a.logger.Info(context.Background(), "Relay stopped gracefully")
			return nil
		},
	}
}
