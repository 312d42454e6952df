package nvm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

// overrideLoaderCandidates narrows loader discovery to test paths.
func overrideLoaderCandidates(t *testing.T, paths ...string) {
	t.Helper()
	saved := loaderCandidates
	loaderCandidates = paths
	t.Cleanup(func() { loaderCandidates = saved })
}

func writeLoader(t *testing.T) string {
	t.Helper()
	loader := filepath.Join(t.TempDir(), "nvm.sh")
	require.NoError(t, os.WriteFile(loader, []byte("# nvm loader"), 0o644))
	return loader
}

func newTestRuntime(t *testing.T, fake *shell.Fake, goos string) *Runtime {
	t.Helper()
	rt := New(fake, state.LoadState(filepath.Join(t.TempDir(), "state.json")))
	rt.goos = goos
	return rt
}

func sourced(loader, command string) string {
	return fmt.Sprintf("bash -c source %q && %s", loader, command)
}

func TestLocateLoader(t *testing.T) {
	t.Run("first existing candidate wins", func(t *testing.T) {
		loader := writeLoader(t)
		overrideLoaderCandidates(t, "/missing/nvm.sh", loader)

		got, found := LocateLoader()
		assert.True(t, found)
		assert.Equal(t, loader, got)
	})

	t.Run("nothing found", func(t *testing.T) {
		overrideLoaderCandidates(t, "/missing/nvm.sh")
		_, found := LocateLoader()
		assert.False(t, found)
	})

	t.Run("default candidates cover the standard locations", func(t *testing.T) {
		assert.Equal(t, manifest.NVMLoaderCandidates, loaderCandidates)
	})
}

func TestEnsure_SkipsWhenNodeManaged(t *testing.T) {
	loader := writeLoader(t)
	overrideLoaderCandidates(t, loader)

	fake := &shell.Fake{Binaries: map[string]string{"node": "/home/dev/.nvm/versions/node/v22.0.0/bin/node"}}
	rt := newTestRuntime(t, fake, "linux")

	res, err := rt.Ensure()
	require.NoError(t, err)
	assert.Equal(t, Skipped, res)
	assert.Equal(t, []string{sourced(loader, "nvm --version")}, fake.Calls,
		"only the loader check may run")
}

func TestEnsure_InstallsNodeLTS(t *testing.T) {
	loader := writeLoader(t)
	overrideLoaderCandidates(t, loader)

	fake := &shell.Fake{}
	rt := newTestRuntime(t, fake, "linux")

	res, err := rt.Ensure()
	require.NoError(t, err)
	assert.Equal(t, Applied, res)
	assert.Equal(t, []string{
		sourced(loader, "nvm --version"),
		sourced(loader, "nvm install --lts"),
	}, fake.Calls)

	ts := rt.st.Tools["node"]
	assert.Equal(t, "nvm", ts.Manager)
	assert.True(t, ts.InstalledBySetup)
}

func TestEnsure_LinuxBootstrapInstallsLoader(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nvm.sh")
	overrideLoaderCandidates(t, target)

	fake := &shell.Fake{}
	fake.OnRun = func(line string) {
		// The upstream script drops the loader into place.
		if strings.HasPrefix(line, "bash ") && strings.Contains(line, "nvm-install.sh") {
			require.NoError(t, os.WriteFile(target, []byte("# nvm loader"), 0o644))
		}
	}
	rt := newTestRuntime(t, fake, "linux")

	res, err := rt.Ensure()
	require.NoError(t, err)
	assert.Equal(t, Applied, res)

	require.Len(t, fake.Calls, 4)
	assert.Contains(t, fake.Calls[0], "curl -L "+InstallScriptURL)
	assert.Contains(t, fake.Calls[1], "nvm-install.sh")
	assert.Equal(t, sourced(target, "nvm --version"), fake.Calls[2])
	assert.Equal(t, sourced(target, "nvm install --lts"), fake.Calls[3])
}

func TestEnsure_DegradesInsteadOfFailing(t *testing.T) {
	t.Run("install script download fails", func(t *testing.T) {
		overrideLoaderCandidates(t, filepath.Join(t.TempDir(), "nvm.sh"))
		script := filepath.Join(os.TempDir(), "nvm-install.sh")

		fake := &shell.Fake{Results: map[string]shell.Result{
			"curl -L " + InstallScriptURL + " -o " + script: {Err: os.ErrDeadlineExceeded},
		}}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.Ensure()
		require.NoError(t, err, "the runtime step never aborts the run")
		assert.Equal(t, Degraded, res)
	})

	t.Run("loader missing after script", func(t *testing.T) {
		overrideLoaderCandidates(t, filepath.Join(t.TempDir(), "nvm.sh"))
		fake := &shell.Fake{}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.Ensure()
		require.NoError(t, err)
		assert.Equal(t, Degraded, res)
	})

	t.Run("loader fails to source", func(t *testing.T) {
		loader := writeLoader(t)
		overrideLoaderCandidates(t, loader)

		fake := &shell.Fake{Results: map[string]shell.Result{
			sourced(loader, "nvm --version"): {Output: []byte("bash: nvm: command not found"), Err: os.ErrPermission},
		}}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.Ensure()
		require.NoError(t, err)
		assert.Equal(t, Degraded, res)
		assert.Len(t, fake.Calls, 1, "no install may follow a failed loader check")
	})

	t.Run("darwin never runs the install script", func(t *testing.T) {
		overrideLoaderCandidates(t, filepath.Join(t.TempDir(), "nvm.sh"))
		fake := &shell.Fake{}
		rt := newTestRuntime(t, fake, "darwin")

		res, err := rt.Ensure()
		require.NoError(t, err)
		assert.Equal(t, Degraded, res)
		assert.Empty(t, fake.Calls)
	})

	t.Run("nvm install --lts failure degrades", func(t *testing.T) {
		loader := writeLoader(t)
		overrideLoaderCandidates(t, loader)

		fake := &shell.Fake{Results: map[string]shell.Result{
			sourced(loader, "nvm install --lts"): {Err: os.ErrPermission},
		}}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.Ensure()
		require.NoError(t, err)
		assert.Equal(t, Degraded, res)
	})
}

func TestEnsureGlobals(t *testing.T) {
	globals := []manifest.Global{
		{Name: "typescript", Check: "tsc"},
		{Name: "prettier", Check: "prettier"},
	}

	t.Run("installs only missing packages via npm", func(t *testing.T) {
		overrideLoaderCandidates(t)
		fake := &shell.Fake{Binaries: map[string]string{
			"npm": "/usr/local/bin/npm",
			"tsc": "/usr/local/bin/tsc",
		}}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.EnsureGlobals(globals)
		require.NoError(t, err)
		assert.Equal(t, Applied, res)
		assert.Equal(t, []string{"npm install -g prettier"}, fake.Calls)
		assert.Equal(t, "npm", rt.st.Tools["prettier"].Manager)
		assert.NotContains(t, rt.st.Tools, "typescript", "present packages are not recorded as ours")
	})

	t.Run("sources the loader when npm is not on PATH", func(t *testing.T) {
		loader := writeLoader(t)
		overrideLoaderCandidates(t, loader)

		fake := &shell.Fake{}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.EnsureGlobals(globals[:1])
		require.NoError(t, err)
		assert.Equal(t, Applied, res)
		assert.Equal(t, []string{sourced(loader, "npm install -g typescript")}, fake.Calls)
	})

	t.Run("everything present installs nothing", func(t *testing.T) {
		overrideLoaderCandidates(t)
		fake := &shell.Fake{Binaries: map[string]string{
			"npm":      "/usr/local/bin/npm",
			"tsc":      "/usr/local/bin/tsc",
			"prettier": "/usr/local/bin/prettier",
		}}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.EnsureGlobals(globals)
		require.NoError(t, err)
		assert.Equal(t, Skipped, res)
		assert.Empty(t, fake.Calls)
	})

	t.Run("skips everything without npm or loader", func(t *testing.T) {
		overrideLoaderCandidates(t)
		fake := &shell.Fake{}
		rt := newTestRuntime(t, fake, "linux")

		res, err := rt.EnsureGlobals(globals)
		require.NoError(t, err)
		assert.Equal(t, Skipped, res)
		assert.Empty(t, fake.Calls)
	})

	t.Run("install failure aborts", func(t *testing.T) {
		overrideLoaderCandidates(t)
		fake := &shell.Fake{
			Binaries: map[string]string{"npm": "/usr/local/bin/npm"},
			Results: map[string]shell.Result{
				"npm install -g typescript": {Output: []byte("EACCES"), Err: os.ErrPermission},
			},
		}
		rt := newTestRuntime(t, fake, "linux")

		_, err := rt.EnsureGlobals(globals)
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}
