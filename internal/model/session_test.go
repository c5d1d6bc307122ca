package model

import (
	"fmt"
	"testing"
)

func TestHistoryAppend_EvictsOldest(t *testing.T) {
	var h History
	for i := 0; i < 21; i++ {
		h = h.Append(RoleUser, fmt.Sprintf("q%d", i))
		h = h.Append(RoleAssistant, fmt.Sprintf("a%d", i))
	}

	if len(h) != MaxHistory {
		t.Fatalf("expected %d entries, got %d", MaxHistory, len(h))
	}
	// 42 appends keep the last 20: pairs 11..20
	if h[0].Content != "q11" || h[0].Role != RoleUser {
		t.Errorf("unexpected oldest entry: %+v", h[0])
	}
	if h[len(h)-1].Content != "a20" {
		t.Errorf("unexpected newest entry: %+v", h[len(h)-1])
	}
}

func TestHistoryAppend_UnderCap(t *testing.T) {
	h := History{}.Append(RoleUser, "hello")
	if len(h) != 1 || h[0].Content != "hello" {
		t.Fatalf("unexpected history: %+v", h)
	}
}

func TestSessionClone_Independent(t *testing.T) {
	id := int64(7)
	s := Session{UserID: 1, History: History{{Role: RoleUser, Content: "x"}}, LastProcessedMessageID: &id}
	c := s.Clone()

	c.History[0].Content = "changed"
	*c.LastProcessedMessageID = 9

	if s.History[0].Content != "x" {
		t.Errorf("clone shares history with original")
	}
	if *s.LastProcessedMessageID != 7 {
		t.Errorf("clone shares last processed id with original")
	}
}

func TestProviderLabel(t *testing.T) {
	cases := map[Provider]string{
		ProviderChatGPT:  "ChatGPT",
		ProviderClaude:   "Claude",
		ProviderDeepSeek: "DeepSeek",
		Provider("x"):    "x",
	}
	for p, want := range cases {
		if got := p.Label(); got != want {
			t.Errorf("Label(%q) = %q, want %q", p, got, want)
		}
	}
}
