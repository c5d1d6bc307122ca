package postgre

import (
	"context"
	"time"

	"telegram-ai-relay/internal/chat/repository"
)

// EnsureUser inserts the user row if it does not exist yet.
func (r *implRepository) EnsureUser(ctx context.Context, userID int64) error {
	const query = `INSERT INTO users (user_id, created_at) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, r.q(query), userID, time.Now().Unix()); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("EnsureUser"), err)
		return repository.ErrFailedToInsert
	}
	return nil
}
