package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/rotviz/logging"
)

func TestWatcher(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "rotviz.json")
	test.That(t, os.WriteFile(path, []byte(`{session: {heartbeat_window: "1m"}}`), 0o600), test.ShouldBeNil)

	w, err := NewWatcher(path, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, w.Close(), test.ShouldBeNil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(cfg *Config) { changes <- cfg })
	}()

	// an invalid version is skipped
	test.That(t, os.WriteFile(path, []byte(`{session: {heartbeat_window: "never"}}`), 0o600), test.ShouldBeNil)
	select {
	case cfg := <-changes:
		t.Fatalf("unexpected config %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}

	test.That(t, os.WriteFile(path, []byte(`{session: {heartbeat_window: "2m"}}`), 0o600), test.ShouldBeNil)
	select {
	case cfg := <-changes:
		test.That(t, cfg.Session.ManagerOptions().HeartbeatWindow, test.ShouldEqual, 2*time.Minute)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not seen")
	}

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "rotviz.json"), logging.NewTestLogger(t), func(*Config) {})
	test.That(t, err, test.ShouldNotBeNil)
}
