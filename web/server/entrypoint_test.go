package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"
	goutils "go.viam.com/utils"

	"go.viam.com/rotviz/logging"
)

func TestRunServerFlags(t *testing.T) {
	logger := logging.NewTestLogger(t)

	err := RunServer(context.Background(), []string{"rotviz-server", "--nope"}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	err = RunServer(context.Background(), []string{"rotviz-server", "--config", filepath.Join(t.TempDir(), "missing.json")}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read config file")

	err = RunServer(context.Background(), []string{"rotviz-server", "--bind", "no-port"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid --bind")
}

func TestRunServer(t *testing.T) {
	logger := logging.NewTestLogger(t)

	port, err := goutils.TryReserveRandomPort()
	test.That(t, err, test.ShouldBeNil)
	addr := fmt.Sprintf("localhost:%d", port)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rotviz.json")
	cfgText := `{
		// served by the test
		network: {bind_address: "localhost:1"},
		session: {heartbeat_window: "1m"},
		log_file: {path: "` + filepath.Join(dir, "rotviz.log") + `"},
	}`
	test.That(t, os.WriteFile(cfgPath, []byte(cfgText), 0o600), test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServer(ctx, []string{"rotviz-server", "--config", cfgPath, "--bind", addr}, logger)
	}()

	client := &http.Client{Timeout: time.Second}
	defer client.CloseIdleConnections()
	healthy := false
	for i := 0; i < 100 && !healthy; i++ {
		resp, err := client.Get("http://" + addr + "/healthz")
		if err == nil {
			healthy = resp.StatusCode == http.StatusOK
			goutils.UncheckedError(resp.Body.Close())
		}
		if !healthy {
			time.Sleep(50 * time.Millisecond)
		}
	}
	test.That(t, healthy, test.ShouldBeTrue)

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = os.Stat(filepath.Join(dir, "rotviz.log"))
	test.That(t, err, test.ShouldBeNil)
}
