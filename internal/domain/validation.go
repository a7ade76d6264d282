package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxPromptLength is the largest prompt, in characters, ValidatePrompt accepts.
const MaxPromptLength = 30000

// ValidatePrompt checks a prompt before a batch is built. It is advisory:
// the executor does not call it, so callers must.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		err := NewValidationError("prompt")
		err.Err = ErrEmptyPrompt
		err.AddError("Prompt cannot be empty")
		return err
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		err := NewValidationError("prompt")
		err.Err = ErrPromptTooLong
		err.AddError("Prompt is too long (max 30,000 characters)")
		return err
	}
	return nil
}

// ValidateSlots checks that a slot mapping is usable: at least one slot and
// a non-empty model per slot.
func ValidateSlots(slots map[SlotID]ModelID) error {
	verr := NewValidationError("slots")
	verr.Err = ErrInvalidConfiguration
	if len(slots) == 0 {
		verr.AddError("at least one slot must be configured")
	}
	for _, slot := range SortedSlots(slots) {
		if slot == "" {
			verr.AddError("slot name cannot be empty")
		}
		if slots[slot] == "" {
			verr.AddError("slot " + string(slot) + " has no model")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
