//go:build basic || database

// Package integration runs the workload binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedWorkloadPath holds the path to a shared workload binary built once for all tests.
	sharedWorkloadPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// issuesCSV is a small tracker export covering both estimate scales and a release.
const issuesCSV = `Issue,Title,Assignee,Estimate,Period,Status,Updated,Release
ABC-1,Login page,ivan.petrov,5d,2026 March,In Progress,2026-03-06,v1.10
ABC-2,Fix logout,ivan.petrov,4h,2026 March,Done,2026-03-05,v1.10
ABC-3,Audit,,1w,2026Q2,TODO,2026-04-10,v1.11
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getWorkloadBinary returns the path to the workload binary, building it once if needed.
func getWorkloadBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "workload-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		workloadPath := filepath.Join(tempDir, "workload")
		buildCmd := exec.Command("go", "build", "-o", workloadPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build workload: %v", err))
		}

		sharedWorkloadPath = workloadPath
	})

	return sharedWorkloadPath
}

// writeIssues writes the shared fixture into a fresh directory.
func writeIssues(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.csv")
	require.NoError(t, os.WriteFile(path, []byte(issuesCSV), 0o644))
	return path
}

// runWorkload runs the binary with a clean HOME and returns stdout.
func runWorkload(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getWorkloadBinary(), args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Logf("Command failed: %s\nStderr: %s", cmd.String(), string(exitErr.Stderr))
		}
		return string(output), err
	}
	return string(output), nil
}
