package telegram

import (
	"context"
	"sync"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	pkgLog "telegram-ai-relay/pkg/log"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
)

type sentMessage struct {
	chatID  int64
	text    string
	buttons []pkgTelegram.InlineKeyboardButton
}

// fakeBot records outbound calls.
type fakeBot struct {
	mu        sync.Mutex
	sent      []sentMessage
	answered  []string
	offsets   []int64
	updates   [][]pkgTelegram.Update
	onEmpty   func()
	file      []byte
	deleted   bool
	fileCalls int
}

func (b *fakeBot) SetWebhook(ctx context.Context, webhookURL, secret string) error { return nil }

func (b *fakeBot) DeleteWebhook(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = true
	return nil
}

func (b *fakeBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (b *fakeBot) SendChoices(ctx context.Context, chatID int64, text string, buttons []pkgTelegram.InlineKeyboardButton) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{chatID: chatID, text: text, buttons: buttons})
	return nil
}

func (b *fakeBot) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answered = append(b.answered, callbackQueryID)
	return nil
}

func (b *fakeBot) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]pkgTelegram.Update, error) {
	b.mu.Lock()
	b.offsets = append(b.offsets, offset)
	if len(b.updates) == 0 {
		onEmpty := b.onEmpty
		b.mu.Unlock()
		if onEmpty != nil {
			onEmpty()
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	batch := b.updates[0]
	b.updates = b.updates[1:]
	b.mu.Unlock()
	return batch, nil
}

func (b *fakeBot) GetFile(ctx context.Context, fileID string) (*pkgTelegram.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fileCalls++
	return &pkgTelegram.File{FileID: fileID, FilePath: "documents/" + fileID}, nil
}

func (b *fakeBot) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	return b.file, nil
}

// countSent counts messages delivered to chatID with exactly text.
func (b *fakeBot) countSent(chatID int64, text string) int {
	n := 0
	for _, m := range b.messages() {
		if m.chatID == chatID && m.text == text {
			n++
		}
	}
	return n
}

func (b *fakeBot) messages() []sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sentMessage(nil), b.sent...)
}

// mockUseCase implements chat.UseCase with canned outputs.
type mockUseCase struct {
	mu sync.Mutex

	prompts     []chat.Prompt
	messageOut  chat.MessageOutput
	messageErr  error
	messages    []chat.MessageInput
	chosen      []string
	projects    []model.Project
	project     model.Project
	projectErr  error
	created     []chat.CreateProjectInput
	selected    []int64
	saved       []chat.SaveFileInput
	startScopes []model.Scope

	// When set, HandleMessage signals started and then waits for release.
	started chan struct{}
	release chan struct{}
}

func (m *mockUseCase) Start(ctx context.Context, sc model.Scope) ([]chat.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startScopes = append(m.startScopes, sc)
	return m.prompts, nil
}

func (m *mockUseCase) Reset(ctx context.Context, sc model.Scope) ([]chat.Prompt, error) {
	return m.prompts, nil
}

func (m *mockUseCase) Choose(ctx context.Context, sc model.Scope, tag string) ([]chat.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chosen = append(m.chosen, tag)
	return m.prompts, nil
}

func (m *mockUseCase) HandleMessage(ctx context.Context, sc model.Scope, input chat.MessageInput) (chat.MessageOutput, error) {
	if m.started != nil {
		m.started <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, input)
	return m.messageOut, m.messageErr
}

func (m *mockUseCase) ListProjects(ctx context.Context, sc model.Scope) (chat.ListProjectsOutput, error) {
	return chat.ListProjectsOutput{Projects: m.projects}, m.projectErr
}

func (m *mockUseCase) CreateProject(ctx context.Context, sc model.Scope, input chat.CreateProjectInput) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, input)
	return m.project, m.projectErr
}

func (m *mockUseCase) SelectProject(ctx context.Context, sc model.Scope, projectID int64) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, projectID)
	return m.project, m.projectErr
}

func (m *mockUseCase) SaveFile(ctx context.Context, sc model.Scope, input chat.SaveFileInput) (model.ProjectFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, input)
	return model.ProjectFile{Filename: input.Filename}, m.projectErr
}

func newTestHandler(t interface{ Cleanup(func()) }, uc chat.UseCase, bot pkgTelegram.IBot, cfg Config) *handler {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, pkgLog.NewNop(), uc, bot, cfg).(*handler)
}

func textUpdate(updateID, userID int64, text string) pkgTelegram.Update {
	return pkgTelegram.Update{
		UpdateID: updateID,
		Message: &pkgTelegram.Message{
			MessageID: updateID,
			From:      &pkgTelegram.User{ID: userID, Username: "user"},
			Chat:      &pkgTelegram.Chat{ID: userID},
			Text:      text,
		},
	}
}
