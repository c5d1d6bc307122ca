package postgre

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/model"
)

const projectColumns = `p.id, p.name, p.context, up.is_current, p.created_at`

// ListProjects returns the user's projects in creation order.
func (r *implRepository) ListProjects(ctx context.Context, userID int64) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects p
		JOIN user_projects up ON up.project_id = p.id
		WHERE up.user_id = ?
		ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, r.q(query), userID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListProjects"), err)
		return nil, repository.ErrFailedToList
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListProjects"), err)
			return nil, repository.ErrFailedToList
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListProjects"), err)
		return nil, repository.ErrFailedToList
	}
	return projects, nil
}

// CreateProject inserts a project and links it to the user in one transaction.
func (r *implRepository) CreateProject(ctx context.Context, opt repository.CreateProjectOptions) (model.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("CreateProject"), err)
		return model.Project{}, repository.ErrFailedToInsert
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	const insertUser = `INSERT INTO users (user_id, created_at) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, r.q(insertUser), opt.UserID, now); err != nil {
		r.l.Errorf(ctx, "%s user: %v", r.dsn("CreateProject"), err)
		return model.Project{}, repository.ErrFailedToInsert
	}

	const insertProject = `INSERT INTO projects (name, context, created_at) VALUES (?, ?, ?) RETURNING id`
	p := model.Project{Name: opt.Name, Context: opt.Context, CreatedAt: time.Unix(now, 0)}
	if err := tx.QueryRowContext(ctx, r.q(insertProject), opt.Name, opt.Context, now).Scan(&p.ID); err != nil {
		r.l.Errorf(ctx, "%s project: %v", r.dsn("CreateProject"), err)
		return model.Project{}, repository.ErrFailedToInsert
	}

	const link = `INSERT INTO user_projects (user_id, project_id, is_current) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, r.q(link), opt.UserID, p.ID, false); err != nil {
		r.l.Errorf(ctx, "%s link: %v", r.dsn("CreateProject"), err)
		return model.Project{}, repository.ErrFailedToInsert
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("CreateProject"), err)
		return model.Project{}, repository.ErrFailedToInsert
	}
	return p, nil
}

// SetCurrentProject clears every current flag of the user and sets the target, atomically.
func (r *implRepository) SetCurrentProject(ctx context.Context, userID, projectID int64) (model.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("SetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToUpdate
	}
	defer tx.Rollback()

	query := `SELECT ` + projectColumns + `
		FROM projects p
		JOIN user_projects up ON up.project_id = p.id
		WHERE up.user_id = ? AND p.id = ?`
	p, err := scanProject(tx.QueryRowContext(ctx, r.q(query), userID, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, repository.ErrProjectNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "%s get: %v", r.dsn("SetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToGet
	}

	const clearCurrent = `UPDATE user_projects SET is_current = ? WHERE user_id = ?`
	if _, err := tx.ExecContext(ctx, r.q(clearCurrent), false, userID); err != nil {
		r.l.Errorf(ctx, "%s clear: %v", r.dsn("SetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToUpdate
	}

	const set = `UPDATE user_projects SET is_current = ? WHERE user_id = ? AND project_id = ?`
	if _, err := tx.ExecContext(ctx, r.q(set), true, userID, projectID); err != nil {
		r.l.Errorf(ctx, "%s set: %v", r.dsn("SetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToUpdate
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("SetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToUpdate
	}
	p.IsCurrent = true
	return p, nil
}

// GetCurrentProject returns the zero value when the user has no current project.
func (r *implRepository) GetCurrentProject(ctx context.Context, userID int64) (model.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects p
		JOIN user_projects up ON up.project_id = p.id
		WHERE up.user_id = ? AND up.is_current = ?
		LIMIT 1`

	p, err := scanProject(r.db.QueryRowContext(ctx, r.q(query), userID, true))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetCurrentProject"), err)
		return model.Project{}, repository.ErrFailedToGet
	}
	return p, nil
}

// AddProjectFile stores a file for a project.
func (r *implRepository) AddProjectFile(ctx context.Context, opt repository.AddProjectFileOptions) (model.ProjectFile, error) {
	const query = `INSERT INTO project_files (project_id, filename, content, mime_type, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`

	now := time.Now().Unix()
	f := model.ProjectFile{
		ProjectID: opt.ProjectID,
		Filename:  opt.Filename,
		MimeType:  opt.MimeType,
		Content:   opt.Content,
		CreatedAt: time.Unix(now, 0),
	}
	err := r.db.QueryRowContext(ctx, r.q(query), opt.ProjectID, opt.Filename, opt.Content, opt.MimeType, now).Scan(&f.ID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AddProjectFile"), err)
		return model.ProjectFile{}, repository.ErrFailedToInsert
	}
	return f, nil
}

// ListProjectFiles returns file metadata and content for a project, oldest first.
func (r *implRepository) ListProjectFiles(ctx context.Context, projectID int64) ([]model.ProjectFile, error) {
	const query = `SELECT id, project_id, filename, content, mime_type, created_at
		FROM project_files WHERE project_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, r.q(query), projectID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListProjectFiles"), err)
		return nil, repository.ErrFailedToList
	}
	defer rows.Close()

	var files []model.ProjectFile
	for rows.Next() {
		var f model.ProjectFile
		var createdAt int64
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Content, &f.MimeType, &createdAt); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListProjectFiles"), err)
			return nil, repository.ErrFailedToList
		}
		f.CreatedAt = time.Unix(createdAt, 0)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ErrFailedToList
	}
	return files, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (model.Project, error) {
	var p model.Project
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Name, &p.Context, &p.IsCurrent, &createdAt); err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	return p, nil
}
