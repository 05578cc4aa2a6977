package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv isolates the config and container directories of one test.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return testEnv{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// run executes hds with args and returns its standard output.
func (env testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", env.configDir, "--dir", env.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

// must executes hds and fails the test on error.
func (env testEnv) must(t *testing.T, args ...string) string {
	t.Helper()
	out, err := env.run(t, args...)
	require.NoError(t, err, "hds %s", strings.Join(args, " "))
	return out
}

// normalized collapses each output line's whitespace to single spaces.
func normalized(out string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		lines = append(lines, strings.Join(strings.Fields(l), " "))
	}
	return lines
}
