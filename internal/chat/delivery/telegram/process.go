package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
)

// processUpdate routes one update. It runs on the user's worker lane.
func (h *handler) processUpdate(ctx context.Context, u pkgTelegram.Update) {
	switch {
	case u.CallbackQuery != nil:
		h.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.Document != nil:
		h.handleDocument(ctx, u.Message)
	case u.Message != nil:
		h.handleMessage(ctx, u.Message)
	}
}

func (h *handler) handleCallback(ctx context.Context, cq *pkgTelegram.CallbackQuery) {
	if err := h.bot.AnswerCallbackQuery(ctx, cq.ID); err != nil {
		h.l.Warnf(ctx, "chat.delivery.telegram.handleCallback: %v", err)
	}

	sc := model.Scope{UserID: cq.From.ID, ChatID: cq.From.ID, Username: cq.From.Username}
	if cq.Message != nil && cq.Message.Chat != nil {
		sc.ChatID = cq.Message.Chat.ID
	}

	prompts, err := h.uc.Choose(ctx, sc, cq.Data)
	if err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.handleCallback: Choose(%q): %v", cq.Data, err)
		return
	}
	h.sendPrompts(ctx, sc.ChatID, prompts)
}

func (h *handler) handleMessage(ctx context.Context, msg *pkgTelegram.Message) {
	if msg.Text == "" || msg.Chat == nil {
		return
	}
	sc := messageScope(msg)

	if cmd := strings.TrimSpace(msg.Text); strings.HasPrefix(cmd, "/") {
		h.handleCommand(ctx, sc, cmd)
		return
	}

	out, err := h.uc.HandleMessage(ctx, sc, chat.MessageInput{MessageID: msg.MessageID, Text: msg.Text})
	if err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.handleMessage: %v", err)
		h.send(ctx, sc.ChatID, errorMessage(err))
		return
	}
	if out.Status == chat.StatusSuppressed {
		return
	}
	h.send(ctx, sc.ChatID, out.Reply)
}

func (h *handler) handleCommand(ctx context.Context, sc model.Scope, text string) {
	cmd, args := parseCommand(text)

	switch cmd {
	case "start":
		prompts, err := h.uc.Start(ctx, sc)
		h.reply(ctx, sc.ChatID, prompts, err)
	case "reset":
		prompts, err := h.uc.Reset(ctx, sc)
		h.reply(ctx, sc.ChatID, prompts, err)
	case "help":
		h.send(ctx, sc.ChatID, helpText)
	case "projects":
		out, err := h.uc.ListProjects(ctx, sc)
		if err != nil {
			h.send(ctx, sc.ChatID, errorMessage(err))
			return
		}
		h.send(ctx, sc.ChatID, formatProjects(out.Projects))
	case "newproject":
		name, projectContext, _ := strings.Cut(args, "|")
		p, err := h.uc.CreateProject(ctx, sc, chat.CreateProjectInput{Name: name, Context: projectContext})
		if err != nil {
			h.send(ctx, sc.ChatID, errorMessage(err))
			return
		}
		h.send(ctx, sc.ChatID, fmt.Sprintf(textProjectCreated, p.ID, p.Name, p.ID))
	case "project":
		id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
		if err != nil {
			h.send(ctx, sc.ChatID, textProjectUsage)
			return
		}
		p, err := h.uc.SelectProject(ctx, sc, id)
		if err != nil {
			h.send(ctx, sc.ChatID, errorMessage(err))
			return
		}
		h.send(ctx, sc.ChatID, fmt.Sprintf(textProjectSelected, p.ID, p.Name))
	default:
		h.l.Debugf(ctx, "chat.delivery.telegram.handleCommand: unknown command %q", cmd)
	}
}

func (h *handler) handleDocument(ctx context.Context, msg *pkgTelegram.Message) {
	if msg.Chat == nil {
		return
	}
	sc := messageScope(msg)
	doc := msg.Document

	if doc.FileSize > pkgTelegram.MaxDownloadSize {
		h.send(ctx, sc.ChatID, textFileTooLarge)
		return
	}

	f, err := h.bot.GetFile(ctx, doc.FileID)
	if err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.handleDocument: %v", err)
		h.send(ctx, sc.ChatID, textDefaultError)
		return
	}
	content, err := h.bot.DownloadFile(ctx, f.FilePath)
	if err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.handleDocument: %v", err)
		h.send(ctx, sc.ChatID, textDefaultError)
		return
	}

	saved, err := h.uc.SaveFile(ctx, sc, chat.SaveFileInput{
		Filename: doc.FileName,
		MimeType: doc.MimeType,
		Content:  content,
	})
	if err != nil {
		h.send(ctx, sc.ChatID, errorMessage(err))
		return
	}
	h.send(ctx, sc.ChatID, fmt.Sprintf(textFileSaved, saved.Filename))
}

// reply sends prompts, or an error notice when err is set.
func (h *handler) reply(ctx context.Context, chatID int64, prompts []chat.Prompt, err error) {
	if err != nil {
		h.l.Errorf(ctx, "chat.delivery.telegram.reply: %v", err)
		h.send(ctx, chatID, errorMessage(err))
		return
	}
	h.sendPrompts(ctx, chatID, prompts)
}

func (h *handler) sendPrompts(ctx context.Context, chatID int64, prompts []chat.Prompt) {
	for _, p := range prompts {
		if len(p.Choices) == 0 {
			h.send(ctx, chatID, p.Text)
			continue
		}
		if err := h.bot.SendChoices(ctx, chatID, p.Text, toButtons(p.Choices)); err != nil {
			h.l.Warnf(ctx, "chat.delivery.telegram.sendPrompts: %v", err)
		}
	}
}

// send delivers a text reply. Failures are logged and dropped.
func (h *handler) send(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	if err := h.bot.SendMessage(ctx, chatID, text); err != nil {
		h.l.Warnf(ctx, "chat.delivery.telegram.send: %v", err)
	}
}

func messageScope(msg *pkgTelegram.Message) model.Scope {
	sc := model.Scope{ChatID: msg.Chat.ID, UserID: msg.Chat.ID}
	if msg.From != nil {
		sc.UserID = msg.From.ID
		sc.Username = msg.From.Username
	}
	return sc
}

// parseCommand splits "/cmd@bot rest" into ("cmd", "rest").
func parseCommand(text string) (string, string) {
	head, rest, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}
