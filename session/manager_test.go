package session

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/state"
)

func newTestManager(t *testing.T, opts ManagerOptions) (*Manager, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	opts.Clock = clk
	m, err := NewManager(opts, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, m.Close(), test.ShouldBeNil)
	})
	return m, clk
}

func TestManagerLifecycle(t *testing.T) {
	m, clk := newTestManager(t, ManagerOptions{HeartbeatWindow: time.Minute})
	test.That(t, m.HeartbeatWindow(), test.ShouldEqual, time.Minute)

	sess, err := m.Create(state.DefaultSettings())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Len(), test.ShouldEqual, 1)

	got, err := m.Get(sess.ID())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, sess)

	got, err = m.GetString(sess.ID().String())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, sess)

	_, err = m.GetString("not-a-uuid")
	test.That(t, errors.Is(err, ErrNotFound), test.ShouldBeTrue)

	_, err = m.Get(uuid.New())
	test.That(t, errors.Is(err, ErrNotFound), test.ShouldBeTrue)

	// a Get within the window keeps the session alive
	clk.Add(50 * time.Second)
	_, err = m.Get(sess.ID())
	test.That(t, err, test.ShouldBeNil)
	clk.Add(50 * time.Second)
	_, err = m.Get(sess.ID())
	test.That(t, err, test.ShouldBeNil)

	test.That(t, m.Delete(sess.ID()), test.ShouldBeNil)
	test.That(t, m.Len(), test.ShouldEqual, 0)
	test.That(t, errors.Is(m.Delete(sess.ID()), ErrNotFound), test.ShouldBeTrue)
}

func TestManagerExpiry(t *testing.T) {
	m, clk := newTestManager(t, ManagerOptions{HeartbeatWindow: time.Minute})

	stale, err := m.Create(state.DefaultSettings())
	test.That(t, err, test.ShouldBeNil)
	clk.Add(45 * time.Second)
	fresh, err := m.Create(state.DefaultSettings())
	test.That(t, err, test.ShouldBeNil)
	clk.Add(30 * time.Second)

	// expired sessions are refused even before a sweep
	_, err = m.Get(stale.ID())
	test.That(t, errors.Is(err, ErrNotFound), test.ShouldBeTrue)
	test.That(t, m.Len(), test.ShouldEqual, 1)

	clk.Add(time.Minute)
	test.That(t, m.Sweep(), test.ShouldEqual, 1)
	test.That(t, m.Len(), test.ShouldEqual, 0)
	_, err = m.Get(fresh.ID())
	test.That(t, errors.Is(err, ErrNotFound), test.ShouldBeTrue)
}

func TestManagerHeartbeatWindowChange(t *testing.T) {
	m, clk := newTestManager(t, ManagerOptions{HeartbeatWindow: time.Minute})
	sess, err := m.Create(state.DefaultSettings())
	test.That(t, err, test.ShouldBeNil)

	m.SetHeartbeatWindow(time.Hour)
	m.SetHeartbeatWindow(0)
	test.That(t, m.HeartbeatWindow(), test.ShouldEqual, time.Hour)
	test.That(t, sess.HeartbeatWindow(), test.ShouldEqual, time.Hour)

	_, err = m.Get(sess.ID())
	test.That(t, err, test.ShouldBeNil)
	clk.Add(30 * time.Minute)
	test.That(t, m.Sweep(), test.ShouldEqual, 0)
}

func TestManagerLimits(t *testing.T) {
	m, _ := newTestManager(t, ManagerOptions{MaxSessions: 2})
	test.That(t, m.HeartbeatWindow(), test.ShouldEqual, DefaultHeartbeatWindow)

	for i := 0; i < 2; i++ {
		_, err := m.Create(state.DefaultSettings())
		test.That(t, err, test.ShouldBeNil)
	}
	_, err := m.Create(state.DefaultSettings())
	test.That(t, errors.Is(err, ErrTooManySessions), test.ShouldBeTrue)

	bad := state.DefaultSettings()
	bad.Precision = 99
	m2, _ := newTestManager(t, ManagerOptions{})
	_, err = m2.Create(bad)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, m2.Len(), test.ShouldEqual, 0)
}

func TestManagerScheduledSweep(t *testing.T) {
	m, err := NewManager(ManagerOptions{HeartbeatWindow: 10 * time.Millisecond, SweepInterval: 20 * time.Millisecond}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, m.Close(), test.ShouldBeNil)
	}()
	_, err = m.Create(state.DefaultSettings())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Start(), test.ShouldBeNil)

	deadline := time.Now().Add(5 * time.Second)
	for m.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	test.That(t, m.Len(), test.ShouldEqual, 0)
}
