package chat

import "telegram-ai-relay/internal/model"

// Choice is one inline keyboard button.
type Choice struct {
	Label string
	Tag   string
}

// Prompt is an outbound message, optionally carrying choices.
type Prompt struct {
	Text    string
	Choices []Choice
}

// Status is the outcome of HandleMessage.
type Status int

const (
	// StatusSuppressed: the message id was already processed; nothing is sent.
	StatusSuppressed Status = iota
	// StatusSetupIncomplete: no provider chosen yet.
	StatusSetupIncomplete
	// StatusReplied: the backend answered.
	StatusReplied
	// StatusBackendFailed: the backend call failed; Reply holds a user-safe notice.
	StatusBackendFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuppressed:
		return "suppressed"
	case StatusSetupIncomplete:
		return "setup_incomplete"
	case StatusReplied:
		return "replied"
	case StatusBackendFailed:
		return "backend_failed"
	default:
		return "unknown"
	}
}

// MessageInput is a content message from the user.
type MessageInput struct {
	MessageID int64
	Text      string
}

// MessageOutput is the dispatcher result. Reply is empty when Status is StatusSuppressed.
type MessageOutput struct {
	Status Status
	Reply  string
}

// CreateProjectInput is the input for CreateProject.
type CreateProjectInput struct {
	Name    string
	Context string
}

// ListProjectsOutput lists the user's projects.
type ListProjectsOutput struct {
	Projects []model.Project
}

// SaveFileInput is a file to attach to the current project.
type SaveFileInput struct {
	Filename string
	MimeType string
	Content  []byte
}
