package model

// Scope identifies who an operation is performed for.
type Scope struct {
	UserID   int64
	ChatID   int64
	Username string
}
