package usecase

import (
	"context"
	"sync"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/chat/repository"
	"telegram-ai-relay/internal/model"
	"telegram-ai-relay/internal/router"
	"telegram-ai-relay/internal/session"
	"telegram-ai-relay/pkg/llmprovider"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// stubProvider is an llmprovider.Provider with a canned answer.
type stubProvider struct {
	name    string
	text    string
	err     error
	calls   int
	lastReq *llmprovider.Request
}

func (s *stubProvider) Complete(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llmprovider.Response{Text: s.text, ProviderName: s.name, Usage: &llmprovider.Usage{}}, nil
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Model() string { return s.name + "-test" }

// mockRepo is an in-memory repository.Repository.
type mockRepo struct {
	mu        sync.Mutex
	users     map[int64]bool
	projects  []model.Project
	owners    map[int64]int64
	current   map[int64]int64
	turns     []repository.RecordTurnOptions
	files     []repository.AddProjectFileOptions
	recordErr error

	currentLookups int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:   map[int64]bool{},
		owners:  map[int64]int64{},
		current: map[int64]int64{},
	}
}

func (m *mockRepo) Migrate(ctx context.Context) error { return nil }

func (m *mockRepo) EnsureUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = true
	return nil
}

func (m *mockRepo) ListProjects(ctx context.Context, userID int64) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Project
	for _, p := range m.projects {
		if m.owners[p.ID] == userID {
			p.IsCurrent = m.current[userID] == p.ID
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateProject(ctx context.Context, opt repository.CreateProjectOptions) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := model.Project{ID: int64(len(m.projects) + 1), Name: opt.Name, Context: opt.Context}
	m.projects = append(m.projects, p)
	m.owners[p.ID] = opt.UserID
	return p, nil
}

func (m *mockRepo) SetCurrentProject(ctx context.Context, userID, projectID int64) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.owners[projectID]; !ok || owner != userID {
		return model.Project{}, repository.ErrProjectNotFound
	}
	m.current[userID] = projectID
	p := m.projects[projectID-1]
	p.IsCurrent = true
	return p, nil
}

func (m *mockRepo) GetCurrentProject(ctx context.Context, userID int64) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentLookups++
	id, ok := m.current[userID]
	if !ok {
		return model.Project{}, nil
	}
	p := m.projects[id-1]
	p.IsCurrent = true
	return p, nil
}

func (m *mockRepo) AddProjectFile(ctx context.Context, opt repository.AddProjectFileOptions) (model.ProjectFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, opt)
	return model.ProjectFile{ID: int64(len(m.files)), ProjectID: opt.ProjectID, Filename: opt.Filename}, nil
}

func (m *mockRepo) ListProjectFiles(ctx context.Context, projectID int64) ([]model.ProjectFile, error) {
	return nil, nil
}

func (m *mockRepo) RecordTurn(ctx context.Context, opt repository.RecordTurnOptions) (model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return model.Conversation{}, m.recordErr
	}
	m.turns = append(m.turns, opt)
	return model.Conversation{ID: int64(len(m.turns))}, nil
}

type testEnv struct {
	uc       *implUseCase
	sessions session.Store
	claude   *stubProvider
	chatgpt  *stubProvider
	deepseek *stubProvider
	repo     *mockRepo
}

// newTestEnv wires the usecase to a real Manager over stub providers.
// withRepo controls whether the recorder is configured.
func newTestEnv(withRepo bool) *testEnv {
	env := &testEnv{
		sessions: session.NewMemoryStore(),
		claude:   &stubProvider{name: llmprovider.ProviderClaude, text: "from claude"},
		chatgpt:  &stubProvider{name: llmprovider.ProviderChatGPT, text: "from chatgpt"},
		deepseek: &stubProvider{name: llmprovider.ProviderDeepSeek, text: "from deepseek"},
	}
	l := &mockLogger{}
	mgr := llmprovider.NewManager([]llmprovider.Entry{
		{Provider: env.claude},
		{Provider: env.chatgpt},
		{Provider: env.deepseek},
	}, l)

	var repo repository.Repository
	if withRepo {
		env.repo = newMockRepo()
		repo = env.repo
	}
	env.uc = New(l, env.sessions, router.New(), mgr, repo).(*implUseCase)
	return env
}

// onlyProviders restricts the usecase to the given stub providers.
func (env *testEnv) onlyProviders(providers ...llmprovider.Provider) {
	entries := make([]llmprovider.Entry, len(providers))
	for i, p := range providers {
		entries[i] = llmprovider.Entry{Provider: p}
	}
	env.uc.llm = llmprovider.NewManager(entries, &mockLogger{})
}

func scope(userID int64) model.Scope {
	return model.Scope{UserID: userID, ChatID: userID}
}

func choiceTags(p chat.Prompt) []string {
	tags := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		tags[i] = c.Tag
	}
	return tags
}
