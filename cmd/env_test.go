// CLI integration tests build the docver binary once and run it in a
// temporary repository, exercising command parsing, the service and the
// store together. HOME points at a temporary directory so the global
// config and the audit log never touch the developer's files.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the docver binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "docver-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "docver"
		if os.PathSeparator == '\\' {
			binaryName = "docver.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
	env    []string // extra KEY=VALUE pairs
}

// newTestEnv creates a temporary directory with an initialised repository.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newBareEnv(t)
	e.run("init")
	return e
}

// newBareEnv creates a temporary directory without running init.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir(), home: t.TempDir(), binary: buildBinary(t)}
}

// run executes docver with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("docver %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes docver and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home, "USERPROFILE="+e.home,
		"DOCVER_DB=", "DOCVER_DIR=", "DOCVER_ADDR=", "DOCVER_SERVER=", "DOCVER_REDIS_URL=")
	cmd.Env = append(cmd.Env, e.env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes docver with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out := e.run(append(args, "-o", "json")...)
	require.NoError(e.t, json.Unmarshal([]byte(lastLine(out)), v), "output: %s", out)
}

// lastLine returns the last non-empty line, skipping any warnings printed
// to stderr before the JSON document.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

// write creates a file in the test directory and returns its name.
func (e *testEnv) write(name, content string) string {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(filepath.Join(e.dir, name), []byte(content), 0644))
	return name
}

// add stores a PDF with optional renditions and returns the new version.
func (e *testEnv) add(docID string, html ...string) int {
	e.t.Helper()
	args := []string{"add", e.write("doc.pdf", "%PDF-1.4 "+docID), "--doc-id", docID}
	for i, h := range html {
		args = append(args, "--html", e.write("page"+string(rune('a'+i))+".html", h))
	}
	var res struct {
		Version int `json:"version"`
	}
	e.runJSON(&res, args...)
	return res.Version
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}
