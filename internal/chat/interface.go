package chat

import (
	"context"

	"telegram-ai-relay/internal/model"
)

// UseCase is the relay domain: session setup, message dispatch and project commands.
type UseCase interface {
	// Start clears the session and returns the mode prompt.
	Start(ctx context.Context, sc model.Scope) ([]Prompt, error)
	// Reset clears the session, confirms, and returns the mode prompt.
	Reset(ctx context.Context, sc model.Scope) ([]Prompt, error)
	// Choose applies a choice tag from an inline keyboard.
	Choose(ctx context.Context, sc model.Scope, tag string) ([]Prompt, error)
	// HandleMessage relays a content message to the configured backend.
	HandleMessage(ctx context.Context, sc model.Scope, input MessageInput) (MessageOutput, error)

	ListProjects(ctx context.Context, sc model.Scope) (ListProjectsOutput, error)
	CreateProject(ctx context.Context, sc model.Scope, input CreateProjectInput) (model.Project, error)
	SelectProject(ctx context.Context, sc model.Scope, projectID int64) (model.Project, error)
	SaveFile(ctx context.Context, sc model.Scope, input SaveFileInput) (model.ProjectFile, error)
}
