// Package dotfiles writes the configuration files provisioning manages:
// the editor config, created once and then left alone, and the terminal
// multiplexer config, kept current through a marker-delimited managed
// block so user edits outside the block survive every run.
package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/shell"
)

// Action describes what happened to a managed file.
type Action int

const (
	// Unchanged means the file already matched; nothing was written.
	Unchanged Action = iota
	// Written means the file was created from the template.
	Written
	// Appended means the managed block was added to an existing file.
	Appended
	// Updated means a stale managed block was replaced in place.
	Updated
)

// String returns the state-file word for the action.
func (a Action) String() string {
	switch a {
	case Written:
		return "written"
	case Appended:
		return "appended"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// EditorConfigPath returns the editor config location, ~/.config/nvim/init.vim.
func EditorConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nvim", "init.vim"), nil
}

// TmuxConfigPath returns the multiplexer config location, ~/.tmux.conf.
func TmuxConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tmux.conf"), nil
}

// TPMPath returns where the tmux plugin manager is cloned,
// ~/.tmux/plugins/tpm.
func TPMPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tmux", "plugins", "tpm"), nil
}

// EnsureEditorConfig writes the editor template when the file is absent.
// An existing file is left byte for byte untouched, whatever it contains.
func EnsureEditorConfig(path string) (Action, error) {
	if _, err := os.Stat(path); err == nil {
		logger.Info("[INFO] Editor config %s already exists. Leaving it untouched.\n", path)
		return Unchanged, nil
	} else if !os.IsNotExist(err) {
		return Unchanged, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Unchanged, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(EditorConfig()), 0644); err != nil {
		return Unchanged, fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("[INFO] Wrote editor config to %s\n", path)
	return Written, nil
}

// EnsureTmuxConfig brings the managed block in the multiplexer config up
// to date:
//
//   - missing file: written whole from the template
//   - block present and current: no write at all
//   - block present but stale: replaced in place, the rest preserved
//   - no markers: block appended exactly once
//
// A file carrying only one of the two markers is left alone and reported
// as an error rather than guessed at.
func EnsureTmuxConfig(path string) (Action, error) {
	block := TmuxManagedBlock()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(block), 0644); err != nil {
			return Unchanged, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("[INFO] Wrote multiplexer config to %s\n", path)
		return Written, nil
	}
	if err != nil {
		return Unchanged, fmt.Errorf("read %s: %w", path, err)
	}

	content := string(raw)
	begin := strings.Index(content, tmuxBlockBegin)
	end := strings.Index(content, tmuxBlockEnd)

	switch {
	case begin >= 0 && end > begin:
		blockCore := strings.TrimSuffix(block, "\n")
		current := content[begin : end+len(tmuxBlockEnd)]
		if current == blockCore {
			logger.Info("[INFO] Multiplexer config %s is current. Leaving it untouched.\n", path)
			return Unchanged, nil
		}
		updated := content[:begin] + blockCore + content[end+len(tmuxBlockEnd):]
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return Unchanged, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("[INFO] Updated managed block in %s\n", path)
		return Updated, nil

	case begin < 0 && end < 0:
		appended := content
		if appended != "" && !strings.HasSuffix(appended, "\n") {
			appended += "\n"
		}
		appended += block
		if err := os.WriteFile(path, []byte(appended), 0644); err != nil {
			return Unchanged, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("[INFO] Appended managed block to %s\n", path)
		return Appended, nil

	default:
		return Unchanged, fmt.Errorf("%s has unbalanced managed-block markers; fix the file and re-run", path)
	}
}

// EnsureTPM clones the tmux plugin manager when it is not already in
// place. The clone is required: without it the plugin lines in the managed
// block point at nothing.
func EnsureTPM(r shell.Runner, dir string) (Action, error) {
	if _, err := os.Stat(dir); err == nil {
		logger.Info("[INFO] tmux plugin manager already cloned. Skipping.\n")
		return Unchanged, nil
	}

	logger.Info("[INFO] Cloning tmux plugin manager into %s...\n", dir)
	output, err := r.Run("git", "clone", tpmRepoURL, dir)
	if err != nil {
		logger.Error("[ERROR] git clone failed: %v\nOutput: %s\n", err, output)
		return Unchanged, err
	}
	return Written, nil
}

// InspectTmux reports the managed-block condition of the multiplexer config
// without touching the file: "absent", "unmanaged" (no markers), "current",
// "stale" or "unbalanced".
func InspectTmux(path string) string {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "absent"
	}
	if err != nil {
		return "unreadable"
	}

	text := string(content)
	begin := strings.Index(text, tmuxBlockBegin)
	end := strings.Index(text, tmuxBlockEnd)
	switch {
	case begin < 0 && end < 0:
		return "unmanaged"
	case begin < 0 || end < begin:
		return "unbalanced"
	}

	current := text[begin : end+len(tmuxBlockEnd)]
	if current == strings.TrimSuffix(TmuxManagedBlock(), "\n") {
		return "current"
	}
	return "stale"
}
