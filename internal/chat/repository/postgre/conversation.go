package postgre

import (
	"context"
	"database/sql"
	"time"

	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/model"
)

// RecordTurn appends one turn to the conversation log.
func (r *implRepository) RecordTurn(ctx context.Context, opt repository.RecordTurnOptions) (model.Conversation, error) {
	const query = `INSERT INTO conversations (user_id, project_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`

	now := time.Now().Unix()
	var projectID sql.NullInt64
	if opt.ProjectID != nil {
		projectID = sql.NullInt64{Int64: *opt.ProjectID, Valid: true}
	}

	c := model.Conversation{
		UserID:    opt.UserID,
		ProjectID: opt.ProjectID,
		Role:      opt.Role,
		Content:   opt.Content,
		CreatedAt: time.Unix(now, 0),
	}
	err := r.db.QueryRowContext(ctx, r.q(query), opt.UserID, projectID, string(opt.Role), opt.Content, now).Scan(&c.ID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("RecordTurn"), err)
		return model.Conversation{}, repository.ErrFailedToInsert
	}
	return c, nil
}
