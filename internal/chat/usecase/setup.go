package usecase

import (
	"context"
	"fmt"

	"telegram-ai-relay/internal/chat"
	"telegram-ai-relay/internal/model"
	"telegram-ai-relay/internal/router"
)

// Start clears the session and asks for a mode.
func (uc *implUseCase) Start(ctx context.Context, sc model.Scope) ([]chat.Prompt, error) {
	uc.sessions.Clear(sc.UserID)
	uc.ensureUser(ctx, sc.UserID)
	return []chat.Prompt{modePrompt()}, nil
}

// Reset clears the session, confirms, and asks for a mode.
func (uc *implUseCase) Reset(ctx context.Context, sc model.Scope) ([]chat.Prompt, error) {
	uc.sessions.Clear(sc.UserID)
	return []chat.Prompt{{Text: textReset}, modePrompt()}, nil
}

// Choose applies a choice tag. Unknown tags, and languages chosen outside translation mode, are no-ops.
func (uc *implUseCase) Choose(ctx context.Context, sc model.Scope, tag string) ([]chat.Prompt, error) {
	out := uc.router.Classify(tag)

	switch out.Intent {
	case router.IntentMode:
		uc.sessions.Update(sc.UserID, func(s *model.Session) {
			s.Mode = out.Mode
			s.Language = model.LanguageUnset
			s.SystemPrompt = ""
		})
		if out.Mode == model.ModeTranslation {
			return []chat.Prompt{languagePrompt()}, nil
		}
		return []chat.Prompt{uc.providerPrompt()}, nil

	case router.IntentLanguage:
		accepted := false
		uc.sessions.Update(sc.UserID, func(s *model.Session) {
			if s.Mode != model.ModeTranslation {
				return
			}
			s.Language = out.Language
			s.SystemPrompt = TranslationPrompt(out.Language)
			accepted = true
		})
		if !accepted {
			uc.l.Debugf(ctx, "chat.usecase.Choose: ignoring %q outside translation mode for user %d", tag, sc.UserID)
			return nil, nil
		}
		return []chat.Prompt{uc.providerPrompt()}, nil

	case router.IntentProvider:
		if !uc.llm.Has(string(out.Provider)) {
			uc.l.Warnf(ctx, "chat.usecase.Choose: provider %s is not configured, user %d", out.Provider, sc.UserID)
			return []chat.Prompt{{Text: fmt.Sprintf(textProviderUnavailable, out.Provider.Label())}, uc.providerPrompt()}, nil
		}
		uc.sessions.Update(sc.UserID, func(s *model.Session) {
			s.Provider = out.Provider
		})
		return []chat.Prompt{{Text: textSetupDone}}, nil
	}

	uc.l.Debugf(ctx, "chat.usecase.Choose: unknown tag %q from user %d", tag, sc.UserID)
	return nil, nil
}

func modePrompt() chat.Prompt {
	return chat.Prompt{Text: textAskMode, Choices: modeChoices}
}

func languagePrompt() chat.Prompt {
	return chat.Prompt{Text: textAskLanguage, Choices: languageChoices}
}

// providerPrompt offers only the backends this bot has credentials for.
func (uc *implUseCase) providerPrompt() chat.Prompt {
	choices := make([]chat.Choice, 0, len(providerChoices))
	for _, c := range providerChoices {
		if uc.llm.Has(string(uc.router.Classify(c.Tag).Provider)) {
			choices = append(choices, c)
		}
	}
	return chat.Prompt{Text: textAskProvider, Choices: choices}
}
