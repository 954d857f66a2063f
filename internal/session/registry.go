package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"dialcore/internal/dialogue"
)

var ErrSessionNotFound = errors.New("session not found")

// Session owns one dialogue. Its mutex serializes turns; hold it via
// WithDialogue.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	dialogue *dialogue.Dialogue
	lastUsed atomic.Int64 // unix nanoseconds
	now      func() time.Time
}

// WithDialogue runs fn with exclusive access to the session's dialogue.
func (s *Session) WithDialogue(fn func(d *dialogue.Dialogue) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.dialogue)
	s.touch(s.now())
	return err
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(t time.Time) { s.lastUsed.Store(t.UnixNano()) }

type Registry struct {
	mu   sync.RWMutex
	data map[string]*Session
	ttl  time.Duration
	now  func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		data: make(map[string]*Session),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create starts a session with a fresh random id.
func (r *Registry) Create() *Session {
	return r.create(uuid.NewString())
}

// GetOrCreate returns the session for id, creating it when absent or
// expired. Transports that pick their own ids (MQTT topics) use this.
func (r *Registry) GetOrCreate(id string) *Session {
	if s, err := r.Get(id); err == nil {
		return s
	}
	return r.create(id)
}

func (r *Registry) create(id string) *Session {
	now := r.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		dialogue:  dialogue.New(),
		now:       r.now,
	}
	s.touch(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.data[id]; ok && !r.isExpired(cur) {
		return cur
	}
	r.data[id] = s
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[id]
	if !ok || r.isExpired(s) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Sweep drops expired sessions and returns their ids.
func (r *Registry) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []string
	for id, s := range r.data {
		if r.isExpired(s) {
			delete(r.data, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (r *Registry) isExpired(s *Session) bool {
	if r.ttl <= 0 {
		return false
	}
	return r.now().Sub(s.LastUsed()) > r.ttl
}
