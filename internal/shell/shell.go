// Package shell abstracts external command execution behind a small
// interface so provisioning logic can be tested without touching the host.
package shell

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/panariellop/setup-workstation/internal/logger"
)

// Runner executes external commands. Commands run synchronously and block
// until exit; provisioning is strictly sequential, so there is no context
// plumbing and no timeout handling here.
type Runner interface {
	// Run executes name with args and returns the combined stdout/stderr.
	// On failure the returned error wraps the underlying *exec.ExitError so
	// callers can surface the command's exit code.
	Run(name string, args ...string) ([]byte, error)

	// LookPath reports the absolute path of an executable found on PATH.
	LookPath(file string) (string, error)
}

// System is the Runner backed by os/exec.
type System struct{}

// Run executes the command and returns its combined output. Failures wrap
// the exec error with the full command line; the output is returned either
// way so callers can log it.
func (System) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w", strings.Join(cmd.Args, " "), err)
	}
	return output, nil
}

// LookPath resolves an executable on PATH.
func (System) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
