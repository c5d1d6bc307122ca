package router

import (
	"strings"

	"telegram-ai-relay/internal/model"
)

var (
	modes = map[string]model.Mode{
		string(model.ModeTranslation): model.ModeTranslation,
		string(model.ModeGeneral):     model.ModeGeneral,
	}
	languages = map[string]model.Language{
		string(model.LanguageLuo):     model.LanguageLuo,
		string(model.LanguageSwahili): model.LanguageSwahili,
	}
	providers = map[string]model.Provider{
		string(model.ProviderChatGPT):  model.ProviderChatGPT,
		string(model.ProviderClaude):   model.ProviderClaude,
		string(model.ProviderDeepSeek): model.ProviderDeepSeek,
	}
)

// Classify maps a tag such as "lang_luo" to its intent and value.
// Unknown prefixes and unknown values yield IntentUnknown.
func (TagRouter) Classify(tag string) RouterOutput {
	tag = strings.TrimSpace(tag)

	switch {
	case strings.HasPrefix(tag, PrefixMode):
		if m, ok := modes[strings.TrimPrefix(tag, PrefixMode)]; ok {
			return RouterOutput{Intent: IntentMode, Mode: m}
		}
	case strings.HasPrefix(tag, PrefixLanguage):
		if l, ok := languages[strings.TrimPrefix(tag, PrefixLanguage)]; ok {
			return RouterOutput{Intent: IntentLanguage, Language: l}
		}
	case strings.HasPrefix(tag, PrefixProvider):
		if p, ok := providers[strings.TrimPrefix(tag, PrefixProvider)]; ok {
			return RouterOutput{Intent: IntentProvider, Provider: p}
		}
	}
	return RouterOutput{}
}
