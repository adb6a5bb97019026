package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainHelp(t *testing.T) {
	output, err := runMain(t, nil, "--help")
	require.NoError(t, err, string(output))
	require.Contains(t, string(output), "Usage:")
}

func TestMainExitCodes(t *testing.T) {
	missingSocket := filepath.Join(t.TempDir(), "missing.sock")
	env := []string{
		"I3SOCK=" + missingSocket,
		"XDG_STATE_HOME=" + t.TempDir(),
		"XDG_CONFIG_HOME=" + t.TempDir(),
	}

	cases := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unknown command", []string{"not-a-command"}, 2, "unknown command"},
		{"missing argument", []string{"bar-config"}, 2, "requires 1 argument"},
		{"unreachable socket", []string{"marks"}, 1, "i3ipc: dial " + missingSocket},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := runMain(t, env, tc.args...)

			var exitErr *exec.ExitError
			require.True(t, errors.As(err, &exitErr), string(output))
			require.Equal(t, tc.code, exitErr.ExitCode())
			require.Contains(t, string(output), tc.want)
		})
	}
}

// TestMainHelperProcess runs main with the arguments after "--" when the
// test binary is re-executed by runMain.
func TestMainHelperProcess(t *testing.T) {
	if os.Getenv("I3IPC_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := []string{"i3ipc"}
	if i := slices.Index(os.Args, "--"); i >= 0 {
		args = append(args, os.Args[i+1:]...)
	}
	os.Args = args
	main()
}

func runMain(t *testing.T, env []string, args ...string) ([]byte, error) {
	t.Helper()

	cmd := exec.Command(os.Args[0], append([]string{"-test.run=TestMainHelperProcess", "--"}, args...)...)
	cmd.Env = append(append(os.Environ(), "I3IPC_WANT_HELPER_PROCESS=1"), env...)
	return cmd.CombinedOutput()
}
