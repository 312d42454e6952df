package dotfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/shell"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestTemplates(t *testing.T) {
	t.Run("editor config renders the colorscheme", func(t *testing.T) {
		cfg := EditorConfig()
		assert.Contains(t, cfg, "colorscheme habamax")
		assert.NotContains(t, cfg, "%s", "all placeholders must be rendered")
	})

	t.Run("managed block renders the weather city and keeps strftime intact", func(t *testing.T) {
		block := TmuxManagedBlock()
		assert.True(t, strings.HasPrefix(block, tmuxBlockBegin+"\n"))
		assert.True(t, strings.HasSuffix(block, tmuxBlockEnd+"\n"))
		assert.Contains(t, block, "wttr.in/Philadelphia?format=3")
		assert.Contains(t, block, `%d %b %H:%M`)
		assert.NotContains(t, block, "%!", "broken format verbs must not leak into the template")
	})
}

func TestEnsureEditorConfig(t *testing.T) {
	t.Run("writes the template when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".config", "nvim", "init.vim")

		action, err := EnsureEditorConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Written, action)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, EditorConfig(), string(body))
	})

	t.Run("never touches an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "init.vim")
		custom := []byte("\" my own config\nset nonumber\n")
		require.NoError(t, os.WriteFile(path, custom, 0o644))

		action, err := EnsureEditorConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, action)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, custom, body, "existing editor config must stay byte for byte identical")
	})

	t.Run("second run is unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "init.vim")

		_, err := EnsureEditorConfig(path)
		require.NoError(t, err)

		action, err := EnsureEditorConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, action)
	})
}

func TestEnsureTmuxConfig(t *testing.T) {
	t.Run("writes the full template when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")

		action, err := EnsureTmuxConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Written, action)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, TmuxManagedBlock(), string(body))
	})

	t.Run("rerun on a current block writes nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")

		_, err := EnsureTmuxConfig(path)
		require.NoError(t, err)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		action, err := EnsureTmuxConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, action)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("appends exactly once to a file without markers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")
		user := "set -g prefix C-a\nbind r source-file ~/.tmux.conf\n"
		require.NoError(t, os.WriteFile(path, []byte(user), 0o644))

		action, err := EnsureTmuxConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Appended, action)

		// Re-running must not append a second copy.
		action, err = EnsureTmuxConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, action)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), user), "user settings must stay on top")
		assert.Equal(t, 1, strings.Count(string(body), tmuxBlockBegin))
		assert.Equal(t, 1, strings.Count(string(body), "set -g mouse on"))
	})

	t.Run("adds a newline before appending to an unterminated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")
		require.NoError(t, os.WriteFile(path, []byte("set -g prefix C-a"), 0o644))

		_, err := EnsureTmuxConfig(path)
		require.NoError(t, err)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(body), "set -g prefix C-a\n"+tmuxBlockBegin)
	})

	t.Run("replaces a stale block and preserves everything around it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")
		stale := "# top\n" +
			tmuxBlockBegin + "\n" +
			"set -g old-setting gone\n" +
			tmuxBlockEnd + "\n" +
			"# bottom\n"
		require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

		action, err := EnsureTmuxConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Updated, action)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		text := string(body)
		assert.True(t, strings.HasPrefix(text, "# top\n"))
		assert.True(t, strings.HasSuffix(text, "# bottom\n"))
		assert.NotContains(t, text, "old-setting")
		assert.Contains(t, text, "set -g mouse on")
		assert.Equal(t, 1, strings.Count(text, tmuxBlockBegin))
	})

	t.Run("unbalanced markers are an error, not a guess", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmux.conf")
		require.NoError(t, os.WriteFile(path, []byte(tmuxBlockBegin+"\nset -g mouse on\n"), 0o644))

		_, err := EnsureTmuxConfig(path)
		assert.ErrorContains(t, err, "unbalanced")

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(body), tmuxBlockEnd, "a broken file must not be modified")
	})
}

func TestInspectTmux(t *testing.T) {
	dir := t.TempDir()
	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	assert.Equal(t, "absent", InspectTmux(filepath.Join(dir, "missing.conf")))
	assert.Equal(t, "unmanaged", InspectTmux(write(t, "plain.conf", "set -g mouse on\n")))
	assert.Equal(t, "current", InspectTmux(write(t, "current.conf", TmuxManagedBlock())))
	assert.Equal(t, "stale", InspectTmux(write(t, "stale.conf",
		tmuxBlockBegin+"\nset -g old-setting gone\n"+tmuxBlockEnd+"\n")))
	assert.Equal(t, "unbalanced", InspectTmux(write(t, "broken.conf", tmuxBlockBegin+"\n")))
}

func TestEnsureTPM(t *testing.T) {
	t.Run("skips an existing clone", func(t *testing.T) {
		dir := t.TempDir()
		fake := &shell.Fake{}

		action, err := EnsureTPM(fake, dir)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, action)
		assert.Empty(t, fake.Calls)
	})

	t.Run("clones when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tpm")
		fake := &shell.Fake{}

		action, err := EnsureTPM(fake, dir)
		require.NoError(t, err)
		assert.Equal(t, Written, action)
		assert.Equal(t, []string{"git clone " + tpmRepoURL + " " + dir}, fake.Calls)
	})

	t.Run("clone failure is fatal", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tpm")
		fake := &shell.Fake{Results: map[string]shell.Result{
			"git clone " + tpmRepoURL + " " + dir: {Output: []byte("fatal: unable to access"), Err: os.ErrDeadlineExceeded},
		}}

		_, err := EnsureTPM(fake, dir)
		assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
	})
}
