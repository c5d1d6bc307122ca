package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"telegram-ai-relay/config"
	"telegram-ai-relay/internal/chat"
	tgDelivery "telegram-ai-relay/internal/chat/delivery/telegram"
	"telegram-ai-relay/internal/chat/repository"
	chatRepo "telegram-ai-relay/internal/chat/repository/postgre"
	"telegram-ai-relay/internal/chat/usecase"
	"telegram-ai-relay/internal/httpserver"
	"telegram-ai-relay/internal/router"
	"telegram-ai-relay/internal/session"
	"telegram-ai-relay/pkg/llmprovider"
	"telegram-ai-relay/pkg/log"
	"telegram-ai-relay/pkg/sqldb"
	"telegram-ai-relay/pkg/telegram"
)

// app holds the wired process dependencies.
type app struct {
	cfg    *config.Config
	logger log.Logger
	db     *sql.DB
	repo   repository.Repository
	bot    *telegram.Bot
	uc     chat.UseCase
}

// loadApp loads configuration and the logger.
func loadApp(configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	return &app{cfg: cfg, logger: logger}, nil
}

// openRecorder opens the database when a DSN is configured.
func (a *app) openRecorder(ctx context.Context) error {
	if a.cfg.Database.DSN == "" {
		a.logger.Warn(ctx, "database.dsn is empty, conversation recording and projects are disabled")
		return nil
	}

	db, err := sqldb.Open(ctx, sqldb.Config{
		Driver:       a.cfg.Database.Driver,
		DSN:          a.cfg.Database.DSN,
		MaxOpenConns: a.cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	a.db = db

	dialect := chatRepo.DialectPostgres
	if strings.EqualFold(a.cfg.Database.Driver, sqldb.DriverSQLite) {
		dialect = chatRepo.DialectSQLite
	}
	a.repo = chatRepo.New(db, a.logger, dialect)

	if err := a.repo.Migrate(ctx); err != nil {
		return err
	}
	a.logger.Infof(ctx, "Recorder ready (driver=%s)", a.cfg.Database.Driver)
	return nil
}

// build wires the backends, the chat use case and the Telegram client.
func (a *app) build(ctx context.Context) error {
	if a.cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if err := a.openRecorder(ctx); err != nil {
		return err
	}

	entries, err := llmprovider.InitializeProviders(&a.cfg.LLM)
	if err != nil {
		if len(entries) == 0 {
			return err
		}
		a.logger.Warnf(ctx, "Some backends are unavailable: %v", err)
	}
	for _, e := range entries {
		a.logger.Infof(ctx, "Backend %s ready (model=%s, timeout=%s)", e.Provider.Name(), e.Provider.Model(), e.Timeout)
	}
	manager := llmprovider.NewManager(entries, a.logger)

	a.bot = telegram.NewBot(a.cfg.Telegram.BotToken)
	if a.cfg.Telegram.APIURL != "" {
		a.bot.SetAPIURL(a.cfg.Telegram.APIURL)
	}

	a.uc = usecase.New(a.logger, session.NewMemoryStore(), router.New(), manager, a.repo)
	return nil
}

// telegramHandler builds the transport bound to ctx.
func (a *app) telegramHandler(ctx context.Context) tgDelivery.Handler {
	return tgDelivery.New(ctx, a.logger, a.uc, a.bot, tgDelivery.Config{
		WebhookSecret:     a.cfg.Telegram.WebhookSecret,
		PollTimeout:       a.cfg.Telegram.PollTimeout,
		RateLimitPerMin:   a.cfg.Dispatch.RateLimitPerMin,
		DedupWindow:       a.cfg.Dispatch.DedupWindow,
		MaxConcurrency:    a.cfg.Dispatch.MaxConcurrency,
		MaxPendingPerUser: a.cfg.Dispatch.MaxPendingPerUser,
	})
}

// readyChecks lists the dependencies /ready verifies.
func (a *app) readyChecks() map[string]httpserver.ReadyCheck {
	checks := map[string]httpserver.ReadyCheck{}
	if a.db != nil {
		checks["database"] = a.db.PingContext
	}
	return checks
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
