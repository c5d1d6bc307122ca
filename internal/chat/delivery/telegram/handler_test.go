package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	pkgLog "telegram-ai-relay/pkg/log"
	pkgResponse "telegram-ai-relay/pkg/response"
	pkgTelegram "telegram-ai-relay/pkg/telegram"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postUpdate(t *testing.T, h *handler, secret string, body any) (int, pkgResponse.Resp) {
	t.Helper()
	router := gin.New()
	router.POST("/webhook/telegram", h.HandleWebhook)

	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp pkgResponse.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func statusOf(resp pkgResponse.Resp) string {
	data, _ := resp.Data.(map[string]any)
	s, _ := data["status"].(string)
	return s
}

func TestHandleWebhook_InvalidSecret(t *testing.T) {
	uc := &mockUseCase{}
	h := newTestHandler(t, uc, &fakeBot{}, Config{WebhookSecret: "s3cret"})

	code, _ := postUpdate(t, h, "wrong", textUpdate(1, 42, "hello"))
	h.pool.Wait()

	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if len(uc.messages) != 0 {
		t.Errorf("expected no dispatch, got %d", len(uc.messages))
	}
}

func TestHandleWebhook_BadJSON(t *testing.T) {
	h := newTestHandler(t, &mockUseCase{}, &fakeBot{}, Config{})

	code, _ := postUpdate(t, h, "", "{not json")
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestHandleWebhook_TextMessage(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "Hi!"}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{WebhookSecret: "s3cret"})

	code, resp := postUpdate(t, h, "s3cret", textUpdate(1, 42, "  hello  "))
	h.pool.Wait()

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if got := statusOf(resp); got != string(admitted) {
		t.Errorf("status = %q, want %q", got, admitted)
	}
	if len(uc.messages) != 1 || uc.messages[0].Text != "  hello  " || uc.messages[0].MessageID != 1 {
		t.Fatalf("unexpected dispatch: %+v", uc.messages)
	}
	sent := bot.messages()
	if len(sent) != 1 || sent[0].chatID != 42 || sent[0].text != "Hi!" {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestHandleWebhook_DuplicateUpdate(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "ok"}}
	h := newTestHandler(t, uc, &fakeBot{}, Config{})

	postUpdate(t, h, "", textUpdate(7, 42, "hello"))
	_, resp := postUpdate(t, h, "", textUpdate(7, 42, "hello"))
	h.pool.Wait()

	if got := statusOf(resp); got != string(duplicate) {
		t.Errorf("status = %q, want %q", got, duplicate)
	}
	if len(uc.messages) != 1 {
		t.Errorf("expected one dispatch, got %d", len(uc.messages))
	}
}

func TestHandleWebhook_NoSender(t *testing.T) {
	uc := &mockUseCase{}
	h := newTestHandler(t, uc, &fakeBot{}, Config{})

	_, resp := postUpdate(t, h, "", pkgTelegram.Update{UpdateID: 3})
	if got := statusOf(resp); got != string(ignored) {
		t.Errorf("status = %q, want %q", got, ignored)
	}
}

func TestAccept_RateLimited(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "ok"}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{RateLimitPerMin: 30})
	ctx := context.Background()

	for i := int64(1); i <= minBurst; i++ {
		if got := h.accept(ctx, textUpdate(i, 42, "a")); got != admitted {
			t.Fatalf("update %d within burst: %q", i, got)
		}
	}
	if got := h.accept(ctx, textUpdate(100, 42, "b")); got != rateLimited {
		t.Fatalf("update past burst: %q", got)
	}
	if got := h.accept(ctx, textUpdate(101, 42, "c")); got != rateLimited {
		t.Fatalf("second update past burst: %q", got)
	}
	if got := h.accept(ctx, textUpdate(102, 43, "d")); got != admitted {
		t.Fatalf("other user: %q", got)
	}
	h.pool.Wait()
	h.notices.Wait()

	if n := bot.countSent(42, textSlowDown); n != 1 {
		t.Errorf("expected one slow-down notice for the limited chat, got %d", n)
	}
	if n := bot.countSent(43, textSlowDown); n != 0 {
		t.Errorf("unlimited user must not be notified, got %d", n)
	}
	if n := bot.countSent(42, "ok"); n != minBurst {
		t.Errorf("expected %d replies, got %d", minBurst, n)
	}
}

func TestAccept_QueueFullNotifies(t *testing.T) {
	uc := &mockUseCase{
		messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "ok"},
		started:    make(chan struct{}, 4),
		release:    make(chan struct{}),
	}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{MaxPendingPerUser: 1})
	ctx := context.Background()

	if got := h.accept(ctx, textUpdate(1, 42, "a")); got != admitted {
		t.Fatalf("first update: %q", got)
	}
	<-uc.started
	if got := h.accept(ctx, textUpdate(2, 42, "b")); got != admitted {
		t.Fatalf("queued update: %q", got)
	}
	if got := h.accept(ctx, textUpdate(3, 42, "c")); got != queueFull {
		t.Fatalf("overflow update: %q", got)
	}
	close(uc.release)
	h.pool.Wait()
	h.notices.Wait()

	if n := bot.countSent(42, textSlowDown); n != 1 {
		t.Errorf("expected one slow-down notice, got %d", n)
	}
}

func TestRateLimiter_ConcurrentFirstUse(t *testing.T) {
	rl := newRateLimiter(30)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(7) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed > rl.burst {
		t.Errorf("allowed %d requests, burst is %d", allowed, rl.burst)
	}
	if rl.limiters.Len() != 1 {
		t.Errorf("expected one limiter, got %d", rl.limiters.Len())
	}
}

func TestNewRateLimiter_Burst(t *testing.T) {
	tests := []struct {
		perMin int
		want   int
	}{
		{1, minBurst},
		{30, minBurst},
		{600, 60},
	}
	for _, tt := range tests {
		if got := newRateLimiter(tt.perMin).burst; got != tt.want {
			t.Errorf("newRateLimiter(%d).burst = %d, want %d", tt.perMin, got, tt.want)
		}
	}
	if newRateLimiter(0) != nil {
		t.Error("a zero rate must disable limiting")
	}
}

func TestProcess_WhitespaceTextDispatchedVerbatim(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "ok"}}
	h := newTestHandler(t, uc, &fakeBot{}, Config{})
	ctx := context.Background()

	h.processUpdate(ctx, textUpdate(1, 42, "   "))
	h.processUpdate(ctx, textUpdate(2, 42, "line one\n  line two\n"))

	if len(uc.messages) != 2 {
		t.Fatalf("expected two dispatches, got %+v", uc.messages)
	}
	if uc.messages[0].Text != "   " || uc.messages[1].Text != "line one\n  line two\n" {
		t.Errorf("text altered before dispatch: %+v", uc.messages)
	}
}

func TestProcess_SuppressedSendsNothing(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusSuppressed}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	h.processUpdate(context.Background(), textUpdate(1, 42, "hello"))

	if sent := bot.messages(); len(sent) != 0 {
		t.Errorf("expected no reply, got %+v", sent)
	}
}

func TestProcess_BackendFailedRepliesNotice(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusBackendFailed, Reply: "Claude timed out."}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	h.processUpdate(context.Background(), textUpdate(1, 42, "hello"))

	sent := bot.messages()
	if len(sent) != 1 || sent[0].text != "Claude timed out." {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestProcess_StartSendsChoices(t *testing.T) {
	uc := &mockUseCase{prompts: []chat.Prompt{{
		Text:    "What would you like to do?",
		Choices: []chat.Choice{{Label: "Translation", Tag: "mode_translation"}, {Label: "General use", Tag: "mode_general"}},
	}}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	h.processUpdate(context.Background(), textUpdate(1, 42, "/start@relay_bot"))

	if len(uc.startScopes) != 1 || uc.startScopes[0].UserID != 42 || uc.startScopes[0].Username != "user" {
		t.Fatalf("unexpected start scopes: %+v", uc.startScopes)
	}
	sent := bot.messages()
	if len(sent) != 1 || len(sent[0].buttons) != 2 {
		t.Fatalf("unexpected replies: %+v", sent)
	}
	if sent[0].buttons[1].CallbackData != "mode_general" || sent[0].buttons[1].Text != "General use" {
		t.Errorf("unexpected button: %+v", sent[0].buttons[1])
	}
}

func TestProcess_Callback(t *testing.T) {
	uc := &mockUseCase{prompts: []chat.Prompt{{Text: "Setup complete."}}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	h.processUpdate(context.Background(), pkgTelegram.Update{
		UpdateID: 9,
		CallbackQuery: &pkgTelegram.CallbackQuery{
			ID:      "cb-1",
			From:    &pkgTelegram.User{ID: 42},
			Message: &pkgTelegram.Message{Chat: &pkgTelegram.Chat{ID: 1042}},
			Data:    "ai_claude",
		},
	})

	if len(bot.answered) != 1 || bot.answered[0] != "cb-1" {
		t.Errorf("callback not answered: %v", bot.answered)
	}
	if len(uc.chosen) != 1 || uc.chosen[0] != "ai_claude" {
		t.Errorf("unexpected choices: %v", uc.chosen)
	}
	sent := bot.messages()
	if len(sent) != 1 || sent[0].chatID != 1042 {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestProcess_ProjectCommands(t *testing.T) {
	uc := &mockUseCase{project: model.Project{ID: 5, Name: "thesis"}}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})
	ctx := context.Background()

	h.processUpdate(ctx, textUpdate(1, 42, "/newproject thesis | Luo folk tales"))
	h.processUpdate(ctx, textUpdate(2, 42, "/project 5"))
	h.processUpdate(ctx, textUpdate(3, 42, "/project five"))

	if len(uc.created) != 1 || uc.created[0].Name != "thesis " || uc.created[0].Context != " Luo folk tales" {
		t.Errorf("unexpected create input: %+v", uc.created)
	}
	if len(uc.selected) != 1 || uc.selected[0] != 5 {
		t.Errorf("unexpected selections: %v", uc.selected)
	}
	sent := bot.messages()
	if len(sent) != 3 {
		t.Fatalf("expected 3 replies, got %+v", sent)
	}
	if !strings.Contains(sent[0].text, "#5") || !strings.Contains(sent[1].text, "thesis") || sent[2].text != textProjectUsage {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestProcess_ProjectErrors(t *testing.T) {
	uc := &mockUseCase{projectErr: chat.ErrProjectsDisabled}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	h.processUpdate(context.Background(), textUpdate(1, 42, "/projects"))

	sent := bot.messages()
	if len(sent) != 1 || sent[0].text != errorMessage(chat.ErrProjectsDisabled) {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestProcess_Document(t *testing.T) {
	uc := &mockUseCase{}
	bot := &fakeBot{file: []byte("notes")}
	h := newTestHandler(t, uc, bot, Config{})

	u := textUpdate(1, 42, "")
	u.Message.Document = &pkgTelegram.Document{FileID: "f1", FileName: "notes.txt", MimeType: "text/plain", FileSize: 5}
	h.processUpdate(context.Background(), u)

	if len(uc.saved) != 1 || string(uc.saved[0].Content) != "notes" || uc.saved[0].Filename != "notes.txt" {
		t.Fatalf("unexpected saves: %+v", uc.saved)
	}
	sent := bot.messages()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "notes.txt") {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestProcess_DocumentTooLarge(t *testing.T) {
	uc := &mockUseCase{}
	bot := &fakeBot{}
	h := newTestHandler(t, uc, bot, Config{})

	u := textUpdate(1, 42, "")
	u.Message.Document = &pkgTelegram.Document{FileID: "f1", FileName: "big.bin", FileSize: pkgTelegram.MaxDownloadSize + 1}
	h.processUpdate(context.Background(), u)

	if bot.fileCalls != 0 || len(uc.saved) != 0 {
		t.Errorf("large file should not be fetched")
	}
	if sent := bot.messages(); len(sent) != 1 || sent[0].text != textFileTooLarge {
		t.Errorf("unexpected replies: %+v", sent)
	}
}

func TestPoll_AdvancesOffset(t *testing.T) {
	uc := &mockUseCase{messageOut: chat.MessageOutput{Status: chat.StatusReplied, Reply: "ok"}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{
		updates: [][]pkgTelegram.Update{
			{textUpdate(10, 42, "a"), textUpdate(11, 43, "b")},
		},
		onEmpty: cancel,
	}
	h := New(ctx, pkgLog.NewNop(), uc, bot, Config{PollTimeout: time.Second}).(*handler)

	done := make(chan error, 1)
	go func() { done <- h.Poll(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not stop after cancel")
	}

	if !bot.deleted {
		t.Error("expected webhook to be deleted before polling")
	}
	if len(bot.offsets) < 2 || bot.offsets[0] != 0 || bot.offsets[1] != 12 {
		t.Errorf("unexpected offsets: %v", bot.offsets)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in, cmd, args string
	}{
		{"/start", "start", ""},
		{"/Start@relay_bot", "start", ""},
		{"/project 12", "project", "12"},
		{"/newproject  a | b ", "newproject", "a | b"},
	}
	for _, tt := range tests {
		cmd, args := parseCommand(tt.in)
		if cmd != tt.cmd || args != tt.args {
			t.Errorf("parseCommand(%q) = (%q, %q), want (%q, %q)", tt.in, cmd, args, tt.cmd, tt.args)
		}
	}
}

func TestFormatProjects(t *testing.T) {
	if got := formatProjects(nil); got != textNoProjects {
		t.Errorf("empty list: %q", got)
	}
	got := formatProjects([]model.Project{
		{ID: 1, Name: "alpha"},
		{ID: 2, Name: "beta", Context: "notes", IsCurrent: true},
	})
	want := "Your projects:\n#1 alpha\n#2 beta (current) - notes"
	if got != want {
		t.Errorf("formatProjects = %q, want %q", got, want)
	}
}

func TestErrorMessage(t *testing.T) {
	if got := errorMessage(errors.New("boom")); got != textDefaultError {
		t.Errorf("unknown error: %q", got)
	}
	wrapped := errors.Join(errors.New("ctx"), chat.ErrNoCurrentProject)
	if got := errorMessage(wrapped); !strings.Contains(got, "/project") {
		t.Errorf("wrapped error: %q", got)
	}
}
