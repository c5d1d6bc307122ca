package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"telegram-ai-relay/internal/chat"
	pkgLog "telegram-ai-relay/pkg/log"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
	"telegram-ai-relay/pkg/workerpool"
)

// Handler is the Telegram transport for the chat domain.
type Handler interface {
	// HandleWebhook is the gin handler for POST /webhook/telegram.
	HandleWebhook(c *gin.Context)
	// Poll receives updates with getUpdates until ctx is done.
	Poll(ctx context.Context) error
}

// Config tunes inbound admission and scheduling.
type Config struct {
	WebhookSecret     string
	PollTimeout       time.Duration
	RateLimitPerMin   int
	DedupWindow       time.Duration
	MaxConcurrency    int
	MaxPendingPerUser int
}

const (
	defaultPollTimeout = 30 * time.Second
	defaultDedupWindow = 10 * time.Minute
	dedupCapacity      = 10000
	pollRetryDelay     = 3 * time.Second
	noticeWindow       = time.Minute
	noticeTimeout      = 10 * time.Second
)

type handler struct {
	l      pkgLog.Logger
	uc     chat.UseCase
	bot    pkgTelegram.IBot
	cfg    Config
	pool   *workerpool.Pool[int64]
	limits *rateLimiter

	seenMu sync.Mutex
	seen   *expirable.LRU[int64, struct{}]

	// noticed holds users told to slow down within noticeWindow.
	noticeMu sync.Mutex
	noticed  *expirable.LRU[int64, struct{}]
	notices  sync.WaitGroup
}

// New creates a new Telegram delivery handler. Jobs run on workers bound to ctx;
// cancelling ctx stops dispatch.
func New(ctx context.Context, l pkgLog.Logger, uc chat.UseCase, bot pkgTelegram.IBot, cfg Config) Handler {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = defaultDedupWindow
	}

	h := &handler{
		l:       l,
		uc:      uc,
		bot:     bot,
		cfg:     cfg,
		seen:    expirable.NewLRU[int64, struct{}](dedupCapacity, nil, cfg.DedupWindow),
		limits:  newRateLimiter(cfg.RateLimitPerMin),
		noticed: expirable.NewLRU[int64, struct{}](dedupCapacity, nil, noticeWindow),
	}
	h.pool = workerpool.New[int64](ctx, workerpool.Options[int64]{
		MaxConcurrency: cfg.MaxConcurrency,
		MaxPending:     cfg.MaxPendingPerUser,
		OnPanic: func(ctx context.Context, userID int64, r any) {
			l.Errorf(ctx, "chat.delivery.telegram: recovered panic for user %d: %v", userID, r)
		},
	})
	return h
}
