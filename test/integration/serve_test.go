package integration

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// waitForFile waits for path to exist (or, with gone, to disappear)
func waitForFile(t *testing.T, path string, gone bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_, err := os.Stat(path)
		if (err == nil) != gone {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s (gone=%v)", path, gone)
}

func TestServe_WritesStateFile(t *testing.T) {
	skipShort(t)
	dir := startServer(t)

	statePath := filepath.Join(dir, ".errboard", "errboard.state")
	waitForFile(t, statePath, false, 5*time.Second)

	data, err := os.ReadFile(statePath)
	requireNoError(t, err, "failed to read state file")

	var state struct {
		PID      int    `json:"pid"`
		Port     int    `json:"port"`
		Snapshot string `json:"snapshot"`
	}
	requireNoError(t, json.Unmarshal(data, &state), "failed to parse state file")

	if state.Port != testAPIPort {
		t.Errorf("expected port %d, got %d", testAPIPort, state.Port)
	}
	if !strings.HasSuffix(state.Snapshot, filepath.Join("testdata", "snapshot.json")) {
		t.Errorf("expected resolved snapshot path, got %q", state.Snapshot)
	}
}

func TestServe_ClientDiscoversServer(t *testing.T) {
	skipShort(t)

	binary := buildBinary(t)
	dir := t.TempDir()
	server := startErrboard(t, binary, dir, "serve", "-c", configPath(t, "integration"))
	defer killErrboard(server)
	waitForAPI(t, testAPIAddr, 10*time.Second)
	waitForFile(t, filepath.Join(dir, ".errboard", "errboard.state"), false, 5*time.Second)

	// No --addr: the address comes from the state file
	cmd := exec.Command(binary, "calls", "--filter", "checkout")
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	requireNoError(t, err, "calls failed: "+string(output))

	if !strings.Contains(string(output), "shop.example.com/api/checkout") {
		t.Errorf("expected checkout row, got:\n%s", output)
	}
	if strings.Contains(string(output), "logo.svg") {
		t.Errorf("filtered rows should not be shown, got:\n%s", output)
	}
}

func TestServe_SignalShutdownRemovesState(t *testing.T) {
	skipShort(t)

	binary := buildBinary(t)
	dir := t.TempDir()
	cmd := startErrboard(t, binary, dir, "serve", "-c", configPath(t, "integration"))
	defer killErrboard(cmd)
	waitForAPI(t, testAPIAddr, 10*time.Second)

	statePath := filepath.Join(dir, ".errboard", "errboard.state")
	waitForFile(t, statePath, false, 5*time.Second)

	// SIGHUP reloads without stopping the server
	requireNoError(t, cmd.Process.Signal(syscall.SIGHUP), "failed to send SIGHUP")
	var status StatusResponse
	getJSON(t, "/api/v1/status", &status)
	if status.Status != "ok" {
		t.Errorf("expected server to keep running after SIGHUP, got %q", status.Status)
	}

	requireNoError(t, cmd.Process.Signal(syscall.SIGTERM), "failed to send SIGTERM")

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Errorf("expected clean exit, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after SIGTERM")
	}

	if _, err := os.Stat(statePath); !os.IsNotExist(err) {
		t.Errorf("expected state file to be removed, stat err: %v", err)
	}
}
