package router

// Tag prefixes used in inline keyboard callback data.
const (
	PrefixMode     = "mode_"
	PrefixLanguage = "lang_"
	PrefixProvider = "ai_"
)

// Tags for every supported choice.
const (
	TagModeTranslation = PrefixMode + "translation"
	TagModeGeneral     = PrefixMode + "general"
	TagLangLuo         = PrefixLanguage + "luo"
	TagLangSwahili     = PrefixLanguage + "swahili"
	TagAIChatGPT       = PrefixProvider + "chatgpt"
	TagAIClaude        = PrefixProvider + "claude"
	TagAIDeepSeek      = PrefixProvider + "deepseek"
)
