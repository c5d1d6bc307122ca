package telegram

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	pkgLog "telegram-ai-relay/pkg/log"
	pkgResponse "telegram-ai-relay/pkg/response"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
	"telegram-ai-relay/pkg/workerpool"
)

// admission is what happened to an inbound update.
type admission string

const (
	admitted    admission = "accepted"
	ignored     admission = "ignored"
	duplicate   admission = "duplicate"
	rateLimited admission = "rate_limited"
	queueFull   admission = "queue_full"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It answers 200 as soon as the update is queued; the update is processed on the
// user's worker lane, never on the request goroutine.
// @Summary Telegram webhook
// @Description Receive a Telegram update. The update is queued and processed asynchronously.
// @Tags Telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Secret token registered with setWebhook"
// @Param update body object true "Telegram update"
// @Success 200 {object} response.Resp "Update accepted, ignored or dropped"
// @Failure 400 {object} response.Resp "Malformed update"
// @Failure 401 {object} response.Resp "Invalid secret token"
// @Router /webhook/telegram [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if !validSecret(h.cfg.WebhookSecret, c.GetHeader(secretHeader)) {
		h.l.Warnf(ctx, "chat.delivery.telegram.HandleWebhook: invalid secret token from %s", c.ClientIP())
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.HandleWebhook: failed to parse update: %v", err)
		pkgResponse.BadRequest(c, err)
		return
	}

	// Rejections still answer 200 so Telegram does not redeliver.
	pkgResponse.OK(c, map[string]string{"status": string(h.accept(ctx, update))})
}

// accept dedups, rate-limits and queues an update on its user's lane.
func (h *handler) accept(ctx context.Context, update pkgTelegram.Update) admission {
	userID := updateUserID(update)
	if userID == 0 {
		return ignored
	}

	if !h.markSeen(update.UpdateID) {
		h.l.Debugf(ctx, "chat.delivery.telegram.accept: duplicate update %d", update.UpdateID)
		return duplicate
	}

	if !h.limits.Allow(userID) {
		h.l.Warnf(ctx, "chat.delivery.telegram.accept: rate limit exceeded for user %d", userID)
		h.notifyDropped(ctx, userID, updateChatID(update))
		return rateLimited
	}

	traceID := pkgLog.TraceIDFromContext(ctx)
	err := h.pool.Submit(userID, func(poolCtx context.Context) {
		jobCtx := pkgLog.NewTraceContext(poolCtx)
		if traceID != "" {
			jobCtx = pkgLog.WithTraceID(poolCtx, traceID)
		}
		h.processUpdate(jobCtx, update)
	})
	switch {
	case errors.Is(err, workerpool.ErrQueueFull):
		h.l.Warnf(ctx, "chat.delivery.telegram.accept: queue full for user %d, dropping update %d", userID, update.UpdateID)
		h.notifyDropped(ctx, userID, updateChatID(update))
		return queueFull
	case err != nil:
		h.l.Warnf(ctx, "chat.delivery.telegram.accept: dropping update %d: %v", update.UpdateID, err)
		return ignored
	}
	return admitted
}

// markSeen records updateID and reports whether it was new.
func (h *handler) markSeen(updateID int64) bool {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()

	if h.seen.Contains(updateID) {
		return false
	}
	h.seen.Add(updateID, struct{}{})
	return true
}

// notifyDropped tells the user an update was not processed, at most once per noticeWindow.
// The notice is sent asynchronously.
func (h *handler) notifyDropped(ctx context.Context, userID, chatID int64) {
	if chatID == 0 {
		return
	}

	h.noticeMu.Lock()
	if h.noticed.Contains(userID) {
		h.noticeMu.Unlock()
		return
	}
	h.noticed.Add(userID, struct{}{})
	h.noticeMu.Unlock()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
	h.notices.Add(1)
	go func() {
		defer h.notices.Done()
		defer cancel()
		h.send(sendCtx, chatID, textSlowDown)
	}()
}

func updateUserID(u pkgTelegram.Update) int64 {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	default:
		return 0
	}
}

func updateChatID(u pkgTelegram.Update) int64 {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		return u.CallbackQuery.Message.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat.ID
	default:
		return 0
	}
}
