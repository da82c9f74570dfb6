package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNow is the PM_NOW every test CLI runs with. The demo dataset is dated
// relative to it.
const TestNow = "2024-06-01T12:00:00Z"

// CLI runs pm in-process against a private project directory. HOME and
// XDG_CONFIG_HOME point into that directory, so no user config leaks in.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI returns a CLI rooted at a fresh temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()
	env := map[string]string{
		EnvNow:            TestNow,
		"HOME":            dir,
		"XDG_CONFIG_HOME": filepath.Join(dir, ".config"),
	}

	return &CLI{t: t, Dir: dir, Env: env}
}

// Run runs "pm --cwd <Dir> args..." with empty stdin and returns stdout,
// stderr and the exit code.
func (c *CLI) Run(args ...string) (string, string, int) {
	return c.RunWithReader(strings.NewReader(""), args...)
}

// RunWithInput is Run with stdin, typically shell commands one per line.
func (c *CLI) RunWithInput(stdin string, args ...string) (string, string, int) {
	return c.RunWithReader(strings.NewReader(stdin), args...)
}

// RunWithReader is Run with a live stdin, for tests that feed input while
// the command runs.
func (c *CLI) RunWithReader(stdin io.Reader, args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer

	argv := make([]string, 0, len(args)+3)
	argv = append(argv, "pm", "--cwd", c.Dir)
	argv = append(argv, args...)

	code := Run(stdin, &stdout, &stderr, argv, c.Env, nil)

	return stdout.String(), stderr.String(), code
}

// MustRun fails the test unless the command exits 0. It returns stdout
// without surrounding whitespace.
func (c *CLI) MustRun(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("pm %s: exit %d\nstderr: %s", strings.Join(args, " "), code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail fails the test unless the command exits non-zero with nothing on
// stdout. It returns stderr without surrounding whitespace.
func (c *CLI) MustFail(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)

	switch {
	case code == 0:
		c.t.Fatalf("pm %s: succeeded, want failure\nstdout: %s", strings.Join(args, " "), stdout)
	case stdout != "":
		c.t.Fatalf("pm %s: failed but wrote stdout: %s", strings.Join(args, " "), stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteFile writes content to name, relative to Dir, creating parent
// directories. It returns the absolute path.
func (c *CLI) WriteFile(name, content string) string {
	c.t.Helper()

	path := filepath.Join(c.Dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		c.t.Fatalf("mkdir for %s: %v", name, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		c.t.Fatalf("write %s: %v", name, err)
	}

	return path
}

// ReadFile reads name, relative to Dir.
func (c *CLI) ReadFile(name string) string {
	c.t.Helper()

	data, err := os.ReadFile(filepath.Join(c.Dir, name))
	if err != nil {
		c.t.Fatalf("read %s: %v", name, err)
	}

	return string(data)
}

// AssertContains reports an error if s lacks substr.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("missing %q in:\n%s", substr, s)
	}
}

// AssertNotContains reports an error if s has substr.
func AssertNotContains(t *testing.T, s, substr string) {
	t.Helper()

	if strings.Contains(s, substr) {
		t.Errorf("unexpected %q in:\n%s", substr, s)
	}
}
