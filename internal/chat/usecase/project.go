package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/model"
)

const maxProjectNameLength = 100

// ListProjects returns the user's projects.
func (uc *implUseCase) ListProjects(ctx context.Context, sc model.Scope) (chat.ListProjectsOutput, error) {
	if uc.repo == nil {
		return chat.ListProjectsOutput{}, chat.ErrProjectsDisabled
	}

	projects, err := uc.repo.ListProjects(ctx, sc.UserID)
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.ListProjects: user %d: %v", sc.UserID, err)
		return chat.ListProjectsOutput{}, err
	}
	return chat.ListProjectsOutput{Projects: projects}, nil
}

// CreateProject creates a project owned by the user. It does not become current.
func (uc *implUseCase) CreateProject(ctx context.Context, sc model.Scope, input chat.CreateProjectInput) (model.Project, error) {
	if uc.repo == nil {
		return model.Project{}, chat.ErrProjectsDisabled
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxProjectNameLength {
		return model.Project{}, chat.ErrInvalidProjectName
	}

	p, err := uc.repo.CreateProject(ctx, repository.CreateProjectOptions{
		UserID:  sc.UserID,
		Name:    name,
		Context: strings.TrimSpace(input.Context),
	})
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.CreateProject: user %d: %v", sc.UserID, err)
		return model.Project{}, err
	}
	return p, nil
}

// SelectProject makes projectID the user's current project. Later turns are recorded against it.
func (uc *implUseCase) SelectProject(ctx context.Context, sc model.Scope, projectID int64) (model.Project, error) {
	if uc.repo == nil {
		return model.Project{}, chat.ErrProjectsDisabled
	}

	p, err := uc.repo.SetCurrentProject(ctx, sc.UserID, projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return model.Project{}, chat.ErrProjectNotFound
	}
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.SelectProject: user %d project %d: %v", sc.UserID, projectID, err)
		return model.Project{}, err
	}

	id := p.ID
	uc.sessions.Update(sc.UserID, func(s *model.Session) {
		s.CurrentProjectID = &id
		s.ProjectLoaded = true
	})
	return p, nil
}

// SaveFile attaches a file to the user's current project.
func (uc *implUseCase) SaveFile(ctx context.Context, sc model.Scope, input chat.SaveFileInput) (model.ProjectFile, error) {
	if uc.repo == nil {
		return model.ProjectFile{}, chat.ErrProjectsDisabled
	}
	if len(input.Content) == 0 {
		return model.ProjectFile{}, chat.ErrEmptyFile
	}

	snap := uc.sessions.GetOrCreate(sc.UserID)
	projectID := snap.CurrentProjectID
	if projectID == nil && !snap.ProjectLoaded {
		projectID = uc.currentProjectID(ctx, sc.UserID)
	}
	if projectID == nil {
		return model.ProjectFile{}, chat.ErrNoCurrentProject
	}

	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = "file"
	}

	f, err := uc.repo.AddProjectFile(ctx, repository.AddProjectFileOptions{
		ProjectID: *projectID,
		Filename:  filename,
		MimeType:  input.MimeType,
		Content:   input.Content,
	})
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.SaveFile: user %d project %d: %v", sc.UserID, *projectID, err)
		return model.ProjectFile{}, err
	}
	return f, nil
}
