package repository

import "telegram-ai-relay/internal/model"

// CreateProjectOptions holds parameters for inserting a project owned by UserID.
type CreateProjectOptions struct {
	UserID  int64
	Name    string
	Context string
}

// RecordTurnOptions holds one conversation turn. ProjectID may be nil.
type RecordTurnOptions struct {
	UserID    int64
	ProjectID *int64
	Role      model.Role
	Content   string
}

// AddProjectFileOptions holds a file attached to a project.
type AddProjectFileOptions struct {
	ProjectID int64
	Filename  string
	MimeType  string
	Content   []byte
}
