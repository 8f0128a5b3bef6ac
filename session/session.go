// Package session keeps one rotation state per connected client and expires the ones whose
// client stopped sending heartbeats.
package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"go.viam.com/rotviz/state"
)

// A Session is a client's rotation state plus the deadline by which the client must be heard
// from again.
type Session struct {
	mu              sync.Mutex
	id              uuid.UUID
	deadline        time.Time
	heartbeatWindow time.Duration
	clock           clock.Clock

	state *state.State
}

// New makes a new session around st.
func New(st *state.State, heartbeatWindow time.Duration, clk clock.Clock) *Session {
	return NewWithID(uuid.New(), st, heartbeatWindow, clk)
}

// NewWithID makes a new session with an ID.
func NewWithID(id uuid.UUID, st *state.State, heartbeatWindow time.Duration, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.New()
	}
	sess := &Session{
		id:              id,
		heartbeatWindow: heartbeatWindow,
		clock:           clk,
		state:           st,
	}
	sess.Heartbeat()
	return sess
}

// ID returns the id of this session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Heartbeat pushes the deadline one heartbeat window past now.
func (s *Session) Heartbeat() {
	s.mu.Lock()
	s.deadline = s.clock.Now().Add(s.heartbeatWindow)
	s.mu.Unlock()
}

// Active checks if this session is still active.
func (s *Session) Active(at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline.After(at)
}

// HeartbeatWindow returns the time window that a single heartbeat must sent within.
func (s *Session) HeartbeatWindow() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heartbeatWindow
}

// Deadline returns when this session is set to expire.
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

func (s *Session) setHeartbeatWindow(window time.Duration) {
	s.mu.Lock()
	s.heartbeatWindow = window
	s.mu.Unlock()
}

// Do runs fn with exclusive access to the session's state and counts as a heartbeat. The
// snapshot taken after fn is returned along with fn's error, so a rejected edit still reports
// which field it was rejected on.
func (s *Session) Do(fn func(st *state.State) error) (state.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadline = s.clock.Now().Add(s.heartbeatWindow)
	var err error
	if fn != nil {
		err = fn(s.state)
	}
	return s.state.View(), err
}

// View returns a snapshot of the session's state.
func (s *Session) View() state.Snapshot {
	snap, _ := s.Do(nil)
	return snap
}
