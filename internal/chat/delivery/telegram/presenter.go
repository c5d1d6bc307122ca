package telegram

import (
	"fmt"
	"strings"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
)

const (
	helpText = "Commands:\n" +
		"/start - choose a mode, a language and an AI\n" +
		"/reset - clear your session and start over\n" +
		"/projects - list your projects\n" +
		"/newproject <name> | <context> - create a project\n" +
		"/project <id> - record the conversation into a project\n\n" +
		"Send a document to store it in the current project."

	textNoProjects      = "You have no projects yet. Create one with /newproject <name>."
	textProjectCreated  = "Project #%d %q created. Select it with /project %d."
	textProjectSelected = "Current project: #%d %s"
	textProjectUsage    = "Usage: /project <id>"
	textFileSaved       = "Saved %s to the current project."
	textFileTooLarge    = "This file is too large to store."
	textSlowDown        = "You are sending messages too fast, so some were skipped. Please wait a moment and try again."
)

func toButtons(choices []chat.Choice) []pkgTelegram.InlineKeyboardButton {
	buttons := make([]pkgTelegram.InlineKeyboardButton, len(choices))
	for i, c := range choices {
		buttons[i] = pkgTelegram.InlineKeyboardButton{Text: c.Label, CallbackData: c.Tag}
	}
	return buttons
}

func formatProjects(projects []model.Project) string {
	if len(projects) == 0 {
		return textNoProjects
	}

	var b strings.Builder
	b.WriteString("Your projects:\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "#%d %s", p.ID, p.Name)
		if p.IsCurrent {
			b.WriteString(" (current)")
		}
		if p.Context != "" {
			fmt.Fprintf(&b, " - %s", p.Context)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
