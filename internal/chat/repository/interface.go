package repository

import (
	"context"

	"telegram-ai-relay/internal/model"
)

// Repository is the conversation recorder: users, projects, turns and project files.
type Repository interface {
	UserRepository
	ProjectRepository
	ConversationRepository

	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error
}

// UserRepository stores known Telegram users.
type UserRepository interface {
	// EnsureUser inserts the user if missing. Idempotent.
	EnsureUser(ctx context.Context, userID int64) error
}

// ProjectRepository defines data access for projects and their files.
type ProjectRepository interface {
	ListProjects(ctx context.Context, userID int64) ([]model.Project, error)
	CreateProject(ctx context.Context, opt CreateProjectOptions) (model.Project, error)
	// SetCurrentProject marks projectID as the user's only current project.
	// Returns ErrProjectNotFound when the project does not belong to the user.
	SetCurrentProject(ctx context.Context, userID, projectID int64) (model.Project, error)
	// GetCurrentProject returns the zero Project (ID == 0) when none is current.
	GetCurrentProject(ctx context.Context, userID int64) (model.Project, error)
	AddProjectFile(ctx context.Context, opt AddProjectFileOptions) (model.ProjectFile, error)
	ListProjectFiles(ctx context.Context, projectID int64) ([]model.ProjectFile, error)
}

// ConversationRepository records relayed turns.
type ConversationRepository interface {
	RecordTurn(ctx context.Context, opt RecordTurnOptions) (model.Conversation, error)
}
