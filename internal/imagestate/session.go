package imagestate

import (
	"context"
	"sync"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// Session scopes a Store to one form. It is acquired when the form mounts and
// released when the form is torn down; Release clears every list written
// through the session.
type Session struct {
	store  Store
	formID string

	mu       sync.Mutex
	released bool
}

// Acquire opens a session for formID on store.
func Acquire(store Store, formID string) *Session {
	return &Session{store: store, formID: formID}
}

// FormID returns the id the session is keyed by.
func (s *Session) FormID() string { return s.formID }

func (s *Session) active() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	return nil
}

// SetDefault appends img to the default list of the variant at index.
func (s *Session) SetDefault(ctx context.Context, index int, img models.Image) error {
	if err := s.active(); err != nil {
		return err
	}
	return s.store.Append(ctx, s.formID, index, img)
}

// Replace overwrites the list of the variant at index.
func (s *Session) Replace(ctx context.Context, index int, imgs []models.Image) error {
	if err := s.active(); err != nil {
		return err
	}
	return s.store.Replace(ctx, s.formID, index, imgs)
}

// Images returns the list of the variant at index.
func (s *Session) Images(ctx context.Context, index int) ([]models.Image, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, s.formID, index)
}

// Snapshot returns all lists of the form keyed by variant index.
func (s *Session) Snapshot(ctx context.Context) (map[int][]models.Image, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	return s.store.Snapshot(ctx, s.formID)
}

// Release clears the form's lists. Once it succeeds further calls are no-ops;
// after a failed Clear the session stays active and Release can be retried.
func (s *Session) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	if err := s.store.Clear(ctx, s.formID); err != nil {
		return err
	}
	s.released = true
	return nil
}
