//go:build basic || database

package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	// sharedPaddockPath holds the path to a shared paddock binary built once for all tests.
	sharedPaddockPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPaddockBinary returns the path to the paddock binary, building it once if needed.
func getPaddockBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "paddock-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		paddockPath := filepath.Join(tempDir, "paddock")
		buildCmd := exec.Command("go", "build", "-o", paddockPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build paddock: %v", err))
		}

		sharedPaddockPath = paddockPath
	})

	return sharedPaddockPath
}

// fakeUpstreams serves the 2021 fixtures and an imageless wiki, and points paddock at them.
// The returned counter tracks requests that reached the stats API.
func fakeUpstreams(t *testing.T) *atomic.Int64 {
	t.Helper()
	routes := map[string]string{
		"/2021/driverStandings.json":      "driver_standings_2021.json",
		"/2021/constructorStandings.json": "constructor_standings_2021.json",
		"/2021.json":                      "schedule_2021.json",
		"/2021/1/results.json":            "results_2021_1.json",
		"/2021/2/results.json":            "results_2021_2.json",
	}
	var hits atomic.Int64
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		name, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(filepath.Join("..", "core", "testdata", name))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(stats.Close)

	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(wiki.Close)

	t.Setenv("PADDOCK_STATS_BASE_URL", stats.URL)
	t.Setenv("PADDOCK_WIKI_BASE_URL", wiki.URL)
	t.Setenv("PADDOCK_COLOR", "no")
	return &hits
}

// runPaddockCommand runs the binary from the project root and returns its stdout.
func runPaddockCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPaddockBinary(), args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = exitErr.Stderr
		}
		t.Logf("Command failed: %s\nOutput: %s\nStderr: %s", cmd.String(), string(output), string(stderr))
		return string(output), err
	}
	return string(output), nil
}
