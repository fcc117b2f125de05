package overlay

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fragmede/commentdesk/internal/api"
)

// DefaultKey is the key the overlay blob is stored under.
const DefaultKey = "editedComments"

// KV is the local key/value persistence the store writes through.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store owns the current overlay and keeps the persisted blob in sync with
// it. It is not safe for concurrent use; the UI update loop serialises calls.
type Store struct {
	kv      KV
	key     string
	current Overlay
	logger  *slog.Logger
}

// NewStore creates a store persisting under key (DefaultKey when empty).
func NewStore(kv KV, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:      kv,
		key:     key,
		current: Overlay{},
		logger:  logger.With("component", "overlay"),
	}
}

// Current returns the in-memory overlay.
func (s *Store) Current() Overlay {
	return s.current
}

// Load hydrates the store from the persisted blob. A missing or unreadable
// blob yields an empty overlay.
func (s *Store) Load() Overlay {
	s.current = Overlay{}

	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("reading overlay failed", "key", s.key, "error", err)
		return s.current
	}
	if !ok {
		return s.current
	}

	var ov Overlay
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		s.logger.Warn("discarding unparsable overlay", "key", s.key, "error", err)
		return s.current
	}
	for id, f := range ov {
		if f.Name == nil && f.Body == nil {
			delete(ov, id)
		}
	}
	if ov != nil {
		s.current = ov
	}
	s.logger.Debug("overlay loaded", "entries", len(s.current))
	return s.current
}

// SetField sets base's field to value. When value equals the effective value
// nothing happens: no write, changed is false. Otherwise the new overlay
// becomes current and the whole blob is rewritten. A write error is returned
// but the in-memory edit is kept.
func (s *Store) SetField(base api.Comment, field Field, value string) (Overlay, bool, error) {
	if err := field.check(); err != nil {
		return s.current, false, err
	}
	if s.current.Effective(base, field) == value {
		return s.current, false, nil
	}

	s.current = s.current.With(base.ID, field, value)
	if err := s.persist(); err != nil {
		return s.current, true, err
	}
	s.logger.Debug("field edited", "id", base.ID, "field", string(field))
	return s.current, true, nil
}

// Reset drops every override and removes the persisted key.
func (s *Store) Reset() (Overlay, error) {
	s.current = Overlay{}
	if err := s.kv.Remove(s.key); err != nil {
		return s.current, fmt.Errorf("removing overlay: %w", err)
	}
	s.logger.Info("overlay reset")
	return s.current, nil
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("encoding overlay: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("writing overlay: %w", err)
	}
	return nil
}
