package store

import (
	"context"
	"strings"
)

// MaxHistory is the number of prompts kept in history.
const MaxHistory = 50

// AddToHistory records prompt as the most recent entry. Blank prompts are
// ignored and an existing identical entry moves to the front.
func (s *Store) AddToHistory(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(ctx)
	if err != nil {
		return err
	}
	next := make([]string, 0, min(len(history)+1, MaxHistory))
	next = append(next, prompt)
	for _, p := range history {
		if len(next) == MaxHistory {
			break
		}
		if p != prompt {
			next = append(next, p)
		}
	}
	return s.putJSON(ctx, KeyHistory, next)
}

// LoadHistory returns the recorded prompts, most recent first.
func (s *Store) LoadHistory(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory(ctx)
}

// ClearHistory forgets every recorded prompt.
func (s *Store) ClearHistory(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyHistory)
}

func (s *Store) loadHistory(ctx context.Context) ([]string, error) {
	var history []string
	if _, err := s.getJSON(ctx, KeyHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []string{}
	}
	return history, nil
}
