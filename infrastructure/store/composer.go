package store

import "context"

// DefaultComposerWidth is the composer panel width used before any state
// has been saved.
const DefaultComposerWidth = 350

// ComposerState is the persisted state of the prompt composer panel.
type ComposerState struct {
	Content   string `json:"content"`
	IsVisible bool   `json:"isVisible"`
	Width     int    `json:"width"`
}

// DefaultComposerState returns the state used when none is stored.
func DefaultComposerState() ComposerState {
	return ComposerState{Width: DefaultComposerWidth}
}

// SaveComposerState replaces the stored composer state.
func (s *Store) SaveComposerState(ctx context.Context, state ComposerState) error {
	return s.putJSON(ctx, KeyComposerState, state)
}

// LoadComposerState returns the stored composer state. The default is
// returned when nothing is stored, and alongside any error.
func (s *Store) LoadComposerState(ctx context.Context) (ComposerState, error) {
	var state ComposerState
	found, err := s.getJSON(ctx, KeyComposerState, &state)
	if err != nil || !found {
		return DefaultComposerState(), err
	}
	return state, nil
}
