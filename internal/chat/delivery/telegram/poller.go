package telegram

import (
	"context"
	"time"
)

// Poll runs the getUpdates loop. It removes any registered webhook first,
// since Telegram refuses getUpdates while one is set.
func (h *handler) Poll(ctx context.Context) error {
	if err := h.bot.DeleteWebhook(ctx); err != nil {
		h.l.Warnf(ctx, "chat.delivery.telegram.Poll: %v", err)
	}

	timeoutSec := int(h.cfg.PollTimeout / time.Second)
	var offset int64

	h.l.Infof(ctx, "chat.delivery.telegram.Poll: polling for updates (timeout=%ds)", timeoutSec)
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := h.bot.GetUpdates(ctx, offset, timeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			h.l.Warnf(ctx, "chat.delivery.telegram.Poll: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			h.accept(ctx, u)
		}
	}
}
