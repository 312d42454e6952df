// Package state persists what previous provisioning runs did. The document
// backs the summary, doctor, and uninstall commands; presence probes never
// consult it, so deleting the file is always safe.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/panariellop/setup-workstation/internal/logger"
)

// ToolState records how a tool got onto the machine.
type ToolState struct {
	Manager          string `json:"manager"`                // "brew", "apt", "github", "nvm" or "npm"
	InstallPath      string `json:"install_path,omitempty"` // where the executable landed, when known
	InstalledBySetup bool   `json:"installed_by_setup"`     // false for tools that were already present
}

// ConfigState records the last action taken on a managed configuration file.
type ConfigState struct {
	Action    string    `json:"action"` // "written", "updated", "appended" or "unchanged"
	AppliedAt time.Time `json:"applied_at"`
}

// Run describes one provisioning run end to end.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"` // "ok", "degraded" or "failed"
}

// State is the whole persisted document.
type State struct {
	Tools   map[string]ToolState   `json:"tools"`   // keyed by tool name
	Configs map[string]ConfigState `json:"configs"` // keyed by target file path
	LastRun *Run                   `json:"last_run,omitempty"`
}

// NewRun starts a run record with a fresh identifier.
func NewRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// LoadState loads the saved state from a JSON file at the given path.
// A missing or unreadable file yields a fresh empty state; the maps are
// always non-nil.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{
			Tools:   make(map[string]ToolState),
			Configs: make(map[string]ConfigState),
		}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: a hand-edited file may carry null for either map.
	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	if st.Configs == nil {
		st.Configs = make(map[string]ConfigState)
	}

	return &st
}

// SaveState writes the state as indented JSON, creating the parent
// directory on first use. Errors are logged but not propagated; losing the
// state file costs the summary history, never correctness.
func SaveState(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("[ERROR] Failed to create state directory for %s: %v\n", path, err)
		return
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
