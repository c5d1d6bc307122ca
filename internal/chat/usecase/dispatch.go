package usecase

import (
	"context"
	"errors"
	"fmt"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/model"
	"telegram-ai-relay/pkg/llmprovider"
)

// HandleMessage relays one content message to the session's backend.
//
// The message id is recorded as processed before the backend is called, so a failed
// call is not retried when the same id is delivered again.
func (uc *implUseCase) HandleMessage(ctx context.Context, sc model.Scope, input chat.MessageInput) (chat.MessageOutput, error) {
	var duplicate, ready bool
	snap := uc.sessions.Update(sc.UserID, func(s *model.Session) {
		if s.LastProcessedMessageID != nil && *s.LastProcessedMessageID == input.MessageID {
			duplicate = true
			return
		}
		id := input.MessageID
		s.LastProcessedMessageID = &id

		if s.Provider == model.ProviderUnset {
			return
		}
		ready = true
		s.History = s.History.Append(model.RoleUser, input.Text)
	})

	if duplicate {
		uc.l.Debugf(ctx, "chat.usecase.HandleMessage: %v: user=%d message=%d", chat.ErrDuplicateMessage, sc.UserID, input.MessageID)
		return chat.MessageOutput{Status: chat.StatusSuppressed}, nil
	}
	if !ready {
		uc.l.Debugf(ctx, "chat.usecase.HandleMessage: %v: user=%d", chat.ErrSetupIncomplete, sc.UserID)
		return chat.MessageOutput{Status: chat.StatusSetupIncomplete, Reply: textRestartSetup}, nil
	}

	systemPrompt := snap.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	resp, err := uc.llm.Complete(ctx, string(snap.Provider), llmprovider.NewUserRequest(systemPrompt, input.Text))
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.HandleMessage: provider=%s user=%d message=%d: %v",
			snap.Provider, sc.UserID, input.MessageID, err)
		return chat.MessageOutput{Status: chat.StatusBackendFailed, Reply: failureReply(snap.Provider, err)}, nil
	}

	uc.sessions.Update(sc.UserID, func(s *model.Session) {
		s.History = s.History.Append(model.RoleAssistant, resp.Text)
	})

	uc.recordTurns(ctx, snap, input.Text, resp.Text)

	return chat.MessageOutput{Status: chat.StatusReplied, Reply: resp.Text}, nil
}

// failureReply maps a backend error to a user-safe notice naming the provider.
func failureReply(p model.Provider, err error) string {
	name := p.Label()
	switch {
	case errors.Is(err, llmprovider.ErrProviderNotConfigured):
		return fmt.Sprintf("Sorry, %s is not available on this bot. Choose another AI with /start.", name)
	case errors.Is(err, llmprovider.ErrTimeout):
		return fmt.Sprintf("Sorry, %s took too long to respond. Please try again.", name)
	case errors.Is(err, llmprovider.ErrRateLimited):
		return fmt.Sprintf("Sorry, %s is busy right now. Please try again in a moment.", name)
	default:
		return fmt.Sprintf("Sorry, %s could not answer right now. Please try again later.", name)
	}
}

// recordTurns stores the exchange against the current project. Failures are logged only.
func (uc *implUseCase) recordTurns(ctx context.Context, snap model.Session, userText, reply string) {
	if uc.repo == nil {
		return
	}

	userID := snap.UserID
	projectID := snap.CurrentProjectID
	if projectID == nil && !snap.ProjectLoaded {
		projectID = uc.currentProjectID(ctx, userID)
	}

	if err := uc.repo.EnsureUser(ctx, userID); err != nil {
		uc.l.Warnf(ctx, "chat.usecase.recordTurns: ensure user %d: %v", userID, err)
		return
	}
	for _, turn := range []repository.RecordTurnOptions{
		{UserID: userID, ProjectID: projectID, Role: model.RoleUser, Content: userText},
		{UserID: userID, ProjectID: projectID, Role: model.RoleAssistant, Content: reply},
	} {
		if _, err := uc.repo.RecordTurn(ctx, turn); err != nil {
			uc.l.Warnf(ctx, "chat.usecase.recordTurns: user %d role %s: %v", userID, turn.Role, err)
			return
		}
	}
}

// currentProjectID loads the persisted current project into the session.
// A user without one is remembered until the session is cleared or a project is selected.
func (uc *implUseCase) currentProjectID(ctx context.Context, userID int64) *int64 {
	p, err := uc.repo.GetCurrentProject(ctx, userID)
	if err != nil {
		uc.l.Warnf(ctx, "chat.usecase.currentProjectID: user %d: %v", userID, err)
		return nil
	}
	snap := uc.sessions.Update(userID, func(s *model.Session) {
		if s.CurrentProjectID == nil && p.ID != 0 {
			id := p.ID
			s.CurrentProjectID = &id
		}
		s.ProjectLoaded = true
	})
	return snap.CurrentProjectID
}

func (uc *implUseCase) ensureUser(ctx context.Context, userID int64) {
	if uc.repo == nil {
		return
	}
	if err := uc.repo.EnsureUser(ctx, userID); err != nil {
		uc.l.Warnf(ctx, "chat.usecase.ensureUser: user %d: %v", userID, err)
	}
}
