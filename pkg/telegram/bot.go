package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultAPIURL is the public Bot API server.
	DefaultAPIURL = "https://api.telegram.org"

	// MaxMessageLength is the Bot API limit for a single message text.
	MaxMessageLength = 4096

	// MaxDownloadSize is the Bot API limit for getFile downloads.
	MaxDownloadSize = 20 << 20
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	fileURL    string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	b := &Bot{
		token:      token,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	b.SetAPIURL(DefaultAPIURL)
	return b
}

// SetAPIURL points the client at another Bot API server (a local server, or a test server).
func (b *Bot) SetAPIURL(baseURL string) {
	baseURL = strings.TrimRight(baseURL, "/")
	b.apiURL = fmt.Sprintf("%s/bot%s", baseURL, b.token)
	b.fileURL = fmt.Sprintf("%s/file/bot%s", baseURL, b.token)
}

// SetWebhook registers the webhook URL with Telegram.
// A non-empty secret is echoed by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	if err := b.call(ctx, "setWebhook", setWebhookRequest{URL: webhookURL, SecretToken: secret}, nil); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook so getUpdates can be used.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	if err := b.call(ctx, "deleteWebhook", struct{}{}, nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat.
// Texts longer than MaxMessageLength are sent as consecutive messages.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	for _, part := range splitText(text, MaxMessageLength) {
		if err := b.send(ctx, SendMessageRequest{ChatID: chatID, Text: part}); err != nil {
			return err
		}
	}
	return nil
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	return b.send(ctx, SendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode})
}

// SendChoices sends text with an inline keyboard, one button per row.
func (b *Bot) SendChoices(ctx context.Context, chatID int64, text string, buttons []InlineKeyboardButton) error {
	rows := make([][]InlineKeyboardButton, len(buttons))
	for i, btn := range buttons {
		rows[i] = []InlineKeyboardButton{btn}
	}
	return b.send(ctx, SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: rows},
	})
}

// AnswerCallbackQuery acknowledges a button press so the client stops its spinner.
func (b *Bot) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	if err := b.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{CallbackQueryID: callbackQueryID}, nil); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// GetUpdates long-polls for updates with id >= offset.
func (b *Bot) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	var updates []Update
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        timeoutSec,
		AllowedUpdates: []string{"message", "callback_query"},
	}
	if err := b.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	return updates, nil
}

// GetFile resolves a file id to a downloadable file path.
func (b *Bot) GetFile(ctx context.Context, fileID string) (*File, error) {
	var f File
	if err := b.call(ctx, "getFile", getFileRequest{FileID: fileID}, &f); err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &f, nil
}

// DownloadFile fetches the content of a file returned by GetFile.
func (b *Bot) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", b.fileURL, filePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file download error %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxDownloadSize {
		return nil, fmt.Errorf("file exceeds %d bytes", MaxDownloadSize)
	}
	return data, nil
}

func (b *Bot) send(ctx context.Context, payload SendMessageRequest) error {
	if err := b.call(ctx, "sendMessage", payload, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// call posts payload to the given Bot API method and decodes result into out when non-nil.
func (b *Bot) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", b.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}
	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// splitText cuts text into chunks of at most limit runes, preferring line breaks.
func splitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
