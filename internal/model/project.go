package model

import "time"

// User is a Telegram user known to the recorder.
type User struct {
	ID        int64
	CreatedAt time.Time
}

// Project groups recorded conversations and files under a name and free-text context.
type Project struct {
	ID        int64
	Name      string
	Context   string
	IsCurrent bool
	CreatedAt time.Time
}

// Conversation is one recorded turn. ProjectID is nil when no project was selected.
type Conversation struct {
	ID        int64
	UserID    int64
	ProjectID *int64
	Role      Role
	Content   string
	CreatedAt time.Time
}

// ProjectFile is a binary attachment stored for a project.
type ProjectFile struct {
	ID        int64
	ProjectID int64
	Filename  string
	MimeType  string
	Content   []byte
	CreatedAt time.Time
}
