package logger

import (
	"github.com/fatih/color"
)

// Colored printf-style functions, one per log level. Call sites carry their
// own "[INFO] "-style prefix in the format string so grep over captured
// output stays trivial.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise does nothing.
// It is assigned by Init; the root command wires Init into its
// PersistentPreRun so Debug is always set before any command body runs.
var Debug func(format string, a ...any)

// Init enables or disables debug logging. With enableDebug false, Debug is
// a no-op so call sites never need to guard it.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
