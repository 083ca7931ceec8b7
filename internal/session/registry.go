// Package session keeps the booking sessions of HTTP clients.  Each
// client owns one booking.Session, addressed by a random ID carried in its
// bearer token.  Requests on the same session are serialized; requests on
// different sessions run concurrently.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/flight-reservation/internal/booking"
)

// ErrUnknownSession is returned for IDs that never existed or expired.
var ErrUnknownSession = errors.New("unknown or expired session")

type entry struct {
	mu       sync.Mutex // held while a request uses the session
	sess     *booking.Session
	lastSeen time.Time
}

// Registry maps session IDs to booking sessions.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry returns a registry whose sessions expire after ttl without
// use.  A ttl of zero disables expiry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{entries: make(map[string]*entry), ttl: ttl, now: time.Now}
}

// Create registers a fresh anonymous session and returns its ID.
func (r *Registry) Create() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &entry{sess: booking.NewSession(), lastSeen: r.now()}
	r.mu.Unlock()
	return id
}

// With runs fn with exclusive access to session id.
func (r *Registry) With(id string, fn func(s *booking.Session) error) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && r.expired(e) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	r.mu.Lock()
	e.lastSeen = r.now()
	r.mu.Unlock()
	return fn(e.sess)
}

// Remove forgets session id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// expired must be called with r.mu held.
func (r *Registry) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}
