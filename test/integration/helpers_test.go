package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const (
	testAPIPort = 15656
	testAPIAddr = "http://127.0.0.1:15656"
)

type SnapshotStats struct {
	Path   string `json:"path"`
	Loaded bool   `json:"loaded"`
	Calls  int    `json:"calls"`
	Events int    `json:"events"`
}

type StatusResponse struct {
	Status        string        `json:"status"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	ConfigFile    string        `json:"config_file,omitempty"`
	APIVersion    string        `json:"api_version"`
	Snapshot      SnapshotStats `json:"snapshot"`
}

type CallsResponse struct {
	Search struct {
		Placeholder string `json:"placeholder"`
		Value       string `json:"value"`
		Disabled    bool   `json:"disabled"`
	} `json:"search"`
	EmptyMessage string `json:"empty_message"`
	Table        *struct {
		Rows [][]struct {
			Text  string `json:"text"`
			Image bool   `json:"image"`
		} `json:"rows"`
		Template bool `json:"template"`
	} `json:"table"`
	FilteredCount int    `json:"filtered_count"`
	TotalCount    int    `json:"total_count"`
	MatchMode     string `json:"match_mode"`
}

type EventResponse struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Viewer string `json:"viewer"`
	Icon   string `json:"icon"`
	Body   string `json:"body"`
}

// projectRoot returns the repository root (two directories up from test/integration)
func projectRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..")
}

// buildBinary builds the errboard binary and returns its path
func buildBinary(t *testing.T) string {
	t.Helper()

	binary := filepath.Join(t.TempDir(), "errboard")

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/errboard")
	cmd.Dir = projectRoot(t)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, output)
	}

	return binary
}

// startErrboard starts the errboard binary in dir with the given arguments
func startErrboard(t *testing.T, binary, dir string, args ...string) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Keep the developer's token out of the way
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start errboard: %v", err)
	}

	return cmd
}

// waitForAPI waits for the API to be ready
func waitForAPI(t *testing.T, addr string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(addr + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("API did not become ready within %v", timeout)
}

// killErrboard forcefully kills the errboard process
func killErrboard(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
}

// getJSON fetches path from the test API and decodes the body into v
func getJSON(t *testing.T, path string, v interface{}) int {
	t.Helper()

	resp, err := http.Get(testAPIAddr + path)
	requireNoError(t, err, "GET "+path)
	defer resp.Body.Close()

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("failed to decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

// requireNoError fails the test if err is not nil
func requireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// configPath returns the absolute path to a test config
func configPath(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(fmt.Sprintf("testdata/configs/%s.yaml", name))
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// skipShort skips the test if -short flag is provided
func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// startServer builds errboard and serves the integration config from a
// temporary directory. It returns the directory holding the state file.
func startServer(t *testing.T) string {
	t.Helper()

	binary := buildBinary(t)
	dir := t.TempDir()
	cmd := startErrboard(t, binary, dir, "serve", "-c", configPath(t, "integration"))
	t.Cleanup(func() { killErrboard(cmd) })

	waitForAPI(t, testAPIAddr, 10*time.Second)
	return dir
}
