package http

import "sync"

// NoTagReceived is the session tag before any response has carried one.
const NoTagReceived = "NO_NTAG_RECEIVED_YET"

// Session holds the ntag value echoed back on mutating requests. It is safe
// for concurrent use; concurrent updates are last-writer-wins.
type Session struct {
	mu  sync.RWMutex
	tag string
}

// NewSession returns a Session holding NoTagReceived.
func NewSession() *Session {
	return &Session{tag: NoTagReceived}
}

// Tag returns the current tag.
func (s *Session) Tag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tag
}

// SetTag overwrites the tag.
func (s *Session) SetTag(tag string) {
	s.mu.Lock()
	s.tag = tag
	s.mu.Unlock()
}

// Observe stores tag if it is non-empty and reports whether it did.
func (s *Session) Observe(tag string) bool {
	if tag == "" {
		return false
	}
	s.SetTag(tag)
	return true
}

// Reset puts the session back to NoTagReceived.
func (s *Session) Reset() {
	s.SetTag(NoTagReceived)
}
