package router

import "telegram-ai-relay/internal/model"

// Intent is the kind of setup choice a callback tag carries.
type Intent string

const (
	IntentUnknown  Intent = ""
	IntentMode     Intent = "mode"
	IntentLanguage Intent = "lang"
	IntentProvider Intent = "ai"
)

// RouterOutput is the classified form of a choice tag.
// Exactly one of Mode, Language, Provider is set when Intent is known.
type RouterOutput struct {
	Intent   Intent
	Mode     model.Mode
	Language model.Language
	Provider model.Provider
}

// Known reports whether the tag mapped to a supported choice.
func (o RouterOutput) Known() bool {
	return o.Intent != IntentUnknown
}
