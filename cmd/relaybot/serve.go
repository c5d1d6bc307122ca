package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"telegram-ai-relay/internal/httpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Receive updates through the Telegram webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configFlag(cmd))
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info(ctx, "Starting Telegram AI relay (webhook)...")
			a.logger.Infof(ctx, "Environment: %s", a.cfg.Environment.Name)

			if err := a.build(ctx); err != nil {
				a.logger.Errorf(ctx, "Failed to initialize: %v", err)
				return err
			}
			handler := a.telegramHandler(ctx)

			// Register webhook: auto-detect ngrok or fall back to manual config
			webhookURL := a.cfg.Telegram.WebhookURL
			if webhookURL == "" && a.cfg.Telegram.NgrokAPI != "" {
				ngrokURL, ngrokErr := detectNgrokURL(ctx, a.cfg.Telegram.NgrokAPI)
				if ngrokErr != nil {
					a.logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
				} else {
					webhookURL = ngrokURL + "/webhook/telegram"
					a.logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
				}
			}

			if webhookURL != "" {
				if whErr := a.bot.SetWebhook(ctx, webhookURL, a.cfg.Telegram.WebhookSecret); whErr != nil {
					a.logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
				} else {
					a.logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
				}
			} else {
				a.logger.Warn(ctx, "No webhook URL configured; updates arrive only if the webhook was registered elsewhere")
			}

			srv, err := httpserver.New(a.logger, httpserver.Config{
				Logger:          a.logger,
				Port:            a.cfg.HTTPServer.Port,
				Mode:            a.cfg.HTTPServer.Mode,
				Environment:     a.cfg.Environment.Name,
				ReadyChecks:     a.readyChecks(),
				TelegramHandler: handler,
			})
			if err != nil {
				a.logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
				return err
			}

			if err := srv.Run(ctx); err != nil {
				a.logger.Errorf(ctx, "Failed to run server: %v", err)
				return err
			}

			a.logger.Info(context.Background(), "Server stopped gracefully")
			return nil
		},
	}
}
