package telegram

import (
	"errors"

	"telegram-ai-relay/internal/chat"
)

const textDefaultError = "Something went wrong. Please try again."

// errorMessage returns a user-facing string for the given error.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chat.ErrProjectsDisabled):
		return "Projects are not available on this bot."
	case errors.Is(err, chat.ErrProjectNotFound):
		return "Project not found. Use /projects to see your projects."
	case errors.Is(err, chat.ErrNoCurrentProject):
		return "Select a project first with /project <id>."
	case errors.Is(err, chat.ErrInvalidProjectName):
		return "Usage: /newproject <name> | <context>"
	case errors.Is(err, chat.ErrEmptyFile):
		return "The file is empty."
	default:
		return textDefaultError
	}
}
