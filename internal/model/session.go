package model

// MaxHistory is the number of history entries a session keeps.
const MaxHistory = 20

// Mode is the top-level purpose of a conversation.
type Mode string

const (
	ModeUnset       Mode = ""
	ModeTranslation Mode = "translation"
	ModeGeneral     Mode = "general"
)

// Language is the translation target. Only meaningful in ModeTranslation.
type Language string

const (
	LanguageUnset   Language = ""
	LanguageLuo     Language = "luo"
	LanguageSwahili Language = "swahili"
)

// Provider is the LLM backend selected for a session.
type Provider string

const (
	ProviderUnset    Provider = ""
	ProviderChatGPT  Provider = "chatgpt"
	ProviderClaude   Provider = "claude"
	ProviderDeepSeek Provider = "deepseek"
)

// Label returns the human readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderChatGPT:
		return "ChatGPT"
	case ProviderClaude:
		return "Claude"
	case ProviderDeepSeek:
		return "DeepSeek"
	default:
		return string(p)
	}
}

// Role is the author of a history entry or recorded turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryEntry is one turn of a conversation.
type HistoryEntry struct {
	Role    Role
	Content string
}

// History is a FIFO buffer of at most MaxHistory entries.
type History []HistoryEntry

// Append adds an entry and evicts the oldest ones beyond MaxHistory.
func (h History) Append(role Role, content string) History {
	h = append(h, HistoryEntry{Role: role, Content: content})
	if len(h) > MaxHistory {
		h = h[len(h)-MaxHistory:]
	}
	return h
}

// Clone returns a copy that shares no backing array with h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Session is the per-user dialogue state.
type Session struct {
	UserID                 int64
	Mode                   Mode
	Language               Language
	Provider               Provider
	SystemPrompt           string
	History                History
	LastProcessedMessageID *int64
	CurrentProjectID       *int64
	// ProjectLoaded is set once the persisted current project has been looked up.
	ProjectLoaded bool
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	out.History = s.History.Clone()
	if s.LastProcessedMessageID != nil {
		id := *s.LastProcessedMessageID
		out.LastProcessedMessageID = &id
	}
	if s.CurrentProjectID != nil {
		id := *s.CurrentProjectID
		out.CurrentProjectID = &id
	}
	return out
}

// Ready reports whether the session can dispatch content messages.
func (s Session) Ready() bool {
	return s.Provider != ProviderUnset
}
