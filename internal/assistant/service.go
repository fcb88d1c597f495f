package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	appLog "daydesk/internal/log"
)

// briefingTTL bounds how long a generated daily briefing is reused.
const briefingTTL = 6 * time.Hour

// briefingEntry is one cached briefing text.
type briefingEntry struct {
	text      string
	updatedAt time.Time
}

// Service wraps a Backend with the three panel flows and a briefing
// cache keyed by date, locale and coordinates. The cache belongs here,
// not in the layout engine: layout outputs are recomputed on demand,
// generated prose is not.
type Service struct {
	backend Backend
	locale  string

	mu       sync.Mutex
	briefing map[string]briefingEntry

	// now is injectable for tests.
	now func() time.Time
}

func NewService(backend Backend, locale string) *Service {
	if locale == "" {
		locale = "en"
	}
	return &Service{
		backend:  backend,
		locale:   locale,
		briefing: make(map[string]briefingEntry),
		now:      time.Now,
	}
}

// Briefing returns the daily briefing text for a date, regenerating it
// only when the cached copy for the same date/locale/coordinates has
// expired. agenda is the pre-rendered schedule summary the prompt embeds.
func (s *Service) Briefing(ctx context.Context, date, coords, agenda string) (string, error) {
	key := fmt.Sprintf("%s|%s|%s", date, s.locale, coords)

	s.mu.Lock()
	entry, ok := s.briefing[key]
	s.mu.Unlock()
	if ok && s.now().Sub(entry.updatedAt) < briefingTTL {
		return entry.text, nil
	}

	prompt := strings.Join([]string{
		"Write a short daily briefing for " + date + " in locale " + s.locale + ".",
		"Location: " + coords,
		"Agenda:",
		agenda,
	}, "\n")

	text, usage, err := s.backend.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	appLog.Debug("assistant briefing generated",
		"date", date,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)

	s.mu.Lock()
	s.briefing[key] = briefingEntry{text: text, updatedAt: s.now()}
	s.mu.Unlock()

	return text, nil
}

// Chat sends one free-form message and returns the reply.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	text, usage, err := s.backend.Complete(ctx, message)
	if err != nil {
		return "", err
	}
	appLog.Debug("assistant chat",
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
	return text, nil
}

// Translate renders text into the target locale (the service locale when
// target is empty).
func (s *Service) Translate(ctx context.Context, text, target string) (string, error) {
	if target == "" {
		target = s.locale
	}
	prompt := "Translate the following text to " + target + ":\n" + text
	out, usage, err := s.backend.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	appLog.Debug("assistant translate",
		"target", target,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
	return out, nil
}
