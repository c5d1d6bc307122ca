package telegram

import "context"

// IBot is the subset of the Bot API the relay uses. *Bot implements it.
type IBot interface {
	SetWebhook(ctx context.Context, webhookURL, secret string) error
	DeleteWebhook(ctx context.Context) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendChoices(ctx context.Context, chatID int64, text string, buttons []InlineKeyboardButton) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

var _ IBot = (*Bot)(nil)
