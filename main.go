package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/panariellop/setup-workstation/cmd"
)

func main() {
	os.Exit(run())
}

// run maps the command error to the process exit code: zero for success,
// the failing external command's own exit code when there is one, and one
// for everything else, unsupported platforms and missing package managers
// included.
func run() int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
