package usecase

import (
	"context"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/router"
	"telegram-ai-relay/internal/session"
	"telegram-ai-relay/pkg/llmprovider"
	pkgLog "telegram-ai-relay/pkg/log"
)

// Completer sends one request to a named backend. *llmprovider.Manager implements it.
type Completer interface {
	Has(provider string) bool
	Complete(ctx context.Context, provider string, req *llmprovider.Request) (*llmprovider.Response, error)
}

type implUseCase struct {
	l        pkgLog.Logger
	sessions session.Store
	router   router.Router
	llm      Completer
	repo     repository.Repository
}

var _ chat.UseCase = (*implUseCase)(nil)

// New creates a new chat UseCase instance.
// repo may be nil, in which case turns are not recorded and project commands are disabled.
func New(
	l pkgLog.Logger,
	sessions session.Store,
	r router.Router,
	llm Completer,
	repo repository.Repository,
) chat.UseCase {
	return &implUseCase{
		l:        l,
		sessions: sessions,
		router:   r,
		llm:      llm,
		repo:     repo,
	}
}
