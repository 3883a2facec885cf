package imagestate

import (
	"context"
	"sync"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	forms map[string]map[int][]models.Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{forms: make(map[string]map[int][]models.Image)}
}

func (s *MemoryStore) Append(_ context.Context, formID string, index int, img models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, ok := s.forms[formID]
	if !ok {
		lists = make(map[int][]models.Image)
		s.forms[formID] = lists
	}
	lists[index] = append(lists[index], img)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, formID string, index int, imgs []models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, ok := s.forms[formID]
	if !ok {
		lists = make(map[int][]models.Image)
		s.forms[formID] = lists
	}
	lists[index] = append([]models.Image(nil), imgs...)
	return nil
}

func (s *MemoryStore) List(_ context.Context, formID string, index int) ([]models.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Image{}
	if lists, ok := s.forms[formID]; ok {
		out = append(out, lists[index]...)
	}
	return out, nil
}

func (s *MemoryStore) Snapshot(_ context.Context, formID string) (map[int][]models.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int][]models.Image)
	for idx, imgs := range s.forms[formID] {
		out[idx] = append([]models.Image{}, imgs...)
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, formID string) error {
	s.mu.Lock()
	delete(s.forms, formID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of forms holding state.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}
