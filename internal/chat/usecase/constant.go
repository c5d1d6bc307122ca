package usecase

import (
	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	"telegram-ai-relay/internal/router"
)

const (
	textAskMode      = "What would you like to do?"
	textAskLanguage  = "Which language do you want to translate?"
	textAskProvider  = "Which AI would you like to use?"
	textReset        = "Reset complete. Starting fresh."
	textSetupDone    = "Setup complete! Send your message."
	textRestartSetup = "Please restart with /start and complete setup."

	textProviderUnavailable = "%s is not available on this bot. Please choose another AI."

	// DefaultSystemPrompt is used when no language-specific prompt is set.
	DefaultSystemPrompt = "Provide direct, brief responses. Focus on key points."
)

var (
	modeChoices = []chat.Choice{
		{Label: "Translation", Tag: router.TagModeTranslation},
		{Label: "General use", Tag: router.TagModeGeneral},
	}
	languageChoices = []chat.Choice{
		{Label: "Luo", Tag: router.TagLangLuo},
		{Label: "Swahili (Kenya)", Tag: router.TagLangSwahili},
	}
	providerChoices = []chat.Choice{
		{Label: "ChatGPT", Tag: router.TagAIChatGPT},
		{Label: "Claude", Tag: router.TagAIClaude},
		{Label: "DeepSeek", Tag: router.TagAIDeepSeek},
	}
)

var translationPrompts = map[model.Language]string{
	model.LanguageLuo: "You are a translator from Luo in Kenya. " +
		"Whatever I send you in English you translate to Luo in a naturally spoken way, " +
		"easy to understand even for children and completely uneducated people, using rather short sentences. " +
		"And break the translation down. Whatever I send in Luo you translate to English.",
	model.LanguageSwahili: "You are a translator from Swahili in Kenya. " +
		"Whatever I send you in English you translate to Swahili in a naturally spoken way, " +
		"easy to understand even for children and completely uneducated people, using rather short sentences. " +
		"And break the translation down. Whatever I send in Swahili you translate to English.",
}

// TranslationPrompt returns the fixed system prompt for a language, or "" when unsupported.
func TranslationPrompt(lang model.Language) string {
	return translationPrompts[lang]
}
