package shell

import (
	"os/exec"
	"strings"
)

// Result is a scripted response for one command line in a Fake.
type Result struct {
	Output []byte
	Err    error
}

// Fake is an in-memory Runner for tests. It records every invocation and
// answers from a script keyed by the full command line ("brew install tmux").
// Unscripted commands succeed with empty output, so tests only script the
// interesting cases.
type Fake struct {
	// Calls records every Run invocation in order, as full command lines.
	Calls []string

	// Results maps full command lines to scripted responses.
	Results map[string]Result

	// Binaries maps executable names to the paths LookPath reports for
	// them. Names not present are reported as missing from PATH.
	Binaries map[string]string

	// OnRun, when set, observes every command line before the scripted
	// result is returned. Tests use it to simulate command side effects
	// such as an install script creating files.
	OnRun func(line string)
}

// Run records the call and returns the scripted result, if any.
func (f *Fake) Run(name string, args ...string) ([]byte, error) {
	line := commandLine(name, args)
	f.Calls = append(f.Calls, line)
	if f.OnRun != nil {
		f.OnRun(line)
	}
	if res, ok := f.Results[line]; ok {
		return res.Output, res.Err
	}
	return nil, nil
}

// LookPath answers from the Binaries map.
func (f *Fake) LookPath(file string) (string, error) {
	if path, ok := f.Binaries[file]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// CallCount returns how many recorded command lines start with prefix.
func (f *Fake) CallCount(prefix string) int {
	n := 0
	for _, call := range f.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
