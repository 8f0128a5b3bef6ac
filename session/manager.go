package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/state"
)

// ErrNotFound is returned for ids with no live session.
var ErrNotFound = errors.New("session not found")

// ErrTooManySessions is returned by Create when the manager is full.
var ErrTooManySessions = errors.New("too many sessions")

// Defaults for ManagerOptions fields left zero.
const (
	DefaultHeartbeatWindow = 10 * time.Minute
	DefaultSweepInterval   = time.Minute
	DefaultMaxSessions     = 1024
)

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	HeartbeatWindow time.Duration
	SweepInterval   time.Duration
	MaxSessions     int
	// Clock defaults to the wall clock. Tests pass a clock.Mock.
	Clock clock.Clock
}

func (opts ManagerOptions) withDefaults() ManagerOptions {
	if opts.HeartbeatWindow <= 0 {
		opts.HeartbeatWindow = DefaultHeartbeatWindow
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return opts
}

// Manager owns every live session and periodically drops the expired ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	opts     ManagerOptions

	scheduler gocron.Scheduler
	logger    logging.Logger
}

// NewManager returns a manager. Expiry only runs once Start is called; Get still refuses
// expired sessions before that.
func NewManager(opts ManagerOptions, logger logging.Logger) (*Manager, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{
		sessions:  map[uuid.UUID]*Session{},
		opts:      opts.withDefaults(),
		scheduler: scheduler,
		logger:    logger.Sublogger("sessions"),
	}, nil
}

// Start schedules the expiry sweep.
func (m *Manager) Start() error {
	m.mu.RLock()
	interval := m.opts.SweepInterval
	m.mu.RUnlock()
	j, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := m.Sweep(); n > 0 {
				m.logger.Debugw("expired sessions", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrap(err, "scheduling session sweep")
	}
	m.logger.Debugw("scheduled session sweep", "job", j.ID(), "interval", interval)
	m.scheduler.Start()
	return nil
}

// Close stops the sweep and drops every session.
func (m *Manager) Close() error {
	err := m.scheduler.Shutdown()
	m.mu.Lock()
	m.sessions = map[uuid.UUID]*Session{}
	m.mu.Unlock()
	return err
}

// Create starts a session whose state uses settings.
func (m *Manager) Create(settings state.Settings) (*Session, error) {
	st, err := state.New(settings)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= m.opts.MaxSessions {
		return nil, errors.Wrapf(ErrTooManySessions, "limit is %d", m.opts.MaxSessions)
	}
	sess := New(st, m.opts.HeartbeatWindow, m.opts.Clock)
	m.sessions[sess.ID()] = sess
	m.logger.Debugw("created session", "id", sess.ID())
	return sess, nil
}

// Get returns a live session and records a heartbeat on it. An expired session is removed and
// reported as not found.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if !sess.Active(m.opts.Clock.Now()) {
		m.remove(id)
		return nil, errors.Wrapf(ErrNotFound, "id %s expired", id)
	}
	sess.Heartbeat()
	return sess, nil
}

// GetString is Get for an id in text form.
func (m *Manager) GetString(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, multierr.Combine(errors.Wrapf(ErrNotFound, "id %q", id), err)
	}
	return m.Get(parsed)
}

// Delete removes a session.
func (m *Manager) Delete(id uuid.UUID) error {
	if !m.remove(id) {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}
	m.logger.Debugw("deleted session", "id", id)
	return nil
}

func (m *Manager) remove(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Sweep removes every expired session and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.opts.Clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sess := range m.sessions {
		if !sess.Active(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions, including expired ones not yet swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SetHeartbeatWindow changes the window for new heartbeats on every session.
func (m *Manager) SetHeartbeatWindow(window time.Duration) {
	if window <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.HeartbeatWindow = window
	for _, sess := range m.sessions {
		sess.setHeartbeatWindow(window)
	}
}

// HeartbeatWindow returns the current heartbeat window.
func (m *Manager) HeartbeatWindow() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts.HeartbeatWindow
}
