package session

import "telegram-ai-relay/internal/model"

// Store holds one Session per user.
type Store interface {
	// GetOrCreate returns a snapshot of the user's session, creating it on first use.
	GetOrCreate(userID int64) model.Session
	// Update runs fn on the live session while holding that user's lock and returns a snapshot.
	Update(userID int64, fn func(s *model.Session)) model.Session
	// Clear resets the user's session to defaults.
	Clear(userID int64)
	// Len returns the number of live sessions.
	Len() int
}
