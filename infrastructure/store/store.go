package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-triptych/internal/ports"
)

// Storage keys.
const (
	KeyAPIKey        = "gemini-api-key"
	KeyTemplates     = "gemini-prompt-templates"
	KeyHistory       = "gemini-prompt-history"
	KeyComposerState = "gemini-composer-state"
)

// ErrEmptyAPIKey is returned when saving a blank API key.
var ErrEmptyAPIKey = errors.New("cannot save empty API key")

var _ ports.PromptHistory = (*Store)(nil)

// Store layers the application's records over a ports.KeyValueStore. Each
// record kind is a single JSON value; read-modify-write sequences are
// serialized by a mutex.
type Store struct {
	mu    sync.Mutex
	kv    ports.KeyValueStore
	now   func() time.Time
	newID func() string
}

// New creates a Store over kv.
func New(kv ports.KeyValueStore) *Store {
	return &Store{
		kv:    kv,
		now:   time.Now,
		newID: func() string { return "template-" + uuid.NewString() },
	}
}

// SaveAPIKey stores the trimmed key. Blank keys are rejected.
func (s *Store) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	return s.kv.Put(ctx, KeyAPIKey, []byte(key))
}

// LoadAPIKey returns the stored key. A missing or blank key yields
// ports.ErrNotFound.
func (s *Store) LoadAPIKey(ctx context.Context) (string, error) {
	data, ok, err := s.kv.Get(ctx, KeyAPIKey)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(string(data)) == "" {
		return "", ports.NewStoreError(KeyAPIKey, "load", ports.ErrNotFound)
	}
	return string(data), nil
}

// ClearAPIKey removes the stored key.
func (s *Store) ClearAPIKey(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyAPIKey)
}

// LooksLikeAPIKey reports whether key has the shape of a Gemini API key:
// the AIza prefix and at least 35 characters. It is a hint, not a check
// against the service.
func LooksLikeAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return strings.HasPrefix(key, "AIza") && len(key) >= 35
}

func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, ports.NewStoreError(key, "decode", fmt.Errorf("%w: %v", ports.ErrStoreCorrupted, err))
	}
	return true, nil
}

func (s *Store) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return ports.NewStoreError(key, "encode", err)
	}
	return s.kv.Put(ctx, key, data)
}
