package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/productform"
)

// FormSession is one product form opened by a staff user.
type FormSession struct {
	Controller *productform.Controller
	Nav        *navigation.Recorder
	UserID     int64

	lastSeen time.Time
}

// FormRegistry keeps the open form sessions by form id.
type FormRegistry struct {
	mu       sync.Mutex
	sessions map[string]*FormSession
	now      func() time.Time
	log      logrus.FieldLogger
}

func NewFormRegistry(logger logrus.FieldLogger) *FormRegistry {
	return &FormRegistry{
		sessions: make(map[string]*FormSession),
		now:      time.Now,
		log:      logger.WithField("component", "form_registry"),
	}
}

// Add registers s under its controller's form id.
func (r *FormRegistry) Add(s *FormSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.lastSeen = r.now()
	r.sessions[s.Controller.FormID()] = s
}

// Get returns the session owned by userID and marks it as used.
func (r *FormRegistry) Get(formID string, userID int64) (*FormSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[formID]
	if !ok || s.UserID != userID {
		return nil, false
	}
	s.lastSeen = r.now()
	return s, true
}

// Close unmounts the session's form and removes it. A session whose image
// state could not be released stays registered so Reap retries it.
func (r *FormRegistry) Close(ctx context.Context, formID string) error {
	r.mu.Lock()
	s, ok := r.sessions[formID]
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := s.Controller.Unmount(ctx); err != nil {
		return err
	}
	r.remove(formID, s)
	return nil
}

// remove deletes formID if it still maps to s.
func (r *FormRegistry) remove(formID string, s *FormSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[formID] == s {
		delete(r.sessions, formID)
	}
}

// Len returns the number of open sessions.
func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap closes every session idle for longer than ttl and returns how many
// were closed.
func (r *FormRegistry) Reap(ctx context.Context, ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var expired []*FormSession
	for _, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
		}
	}
	r.mu.Unlock()

	closed := 0
	for _, s := range expired {
		if err := s.Controller.Unmount(ctx); err != nil {
			r.log.WithError(err).WithField("form_id", s.Controller.FormID()).Warn("failed to release abandoned form")
			continue
		}
		r.remove(s.Controller.FormID(), s)
		closed++
	}
	if closed > 0 {
		r.log.WithField("count", closed).Info("released abandoned product forms")
	}
	return closed
}

// CloseAll unmounts every open form, e.g. on shutdown.
func (r *FormRegistry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*FormSession)
	r.mu.Unlock()

	for id, s := range sessions {
		if err := s.Controller.Unmount(ctx); err != nil {
			r.log.WithError(err).WithField("form_id", id).Warn("failed to release form")
			r.mu.Lock()
			r.sessions[id] = s
			r.mu.Unlock()
		}
	}
}
