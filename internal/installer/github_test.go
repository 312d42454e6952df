package installer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panariellop/setup-workstation/internal/manifest"
	"github.com/panariellop/setup-workstation/internal/platform"
	"github.com/panariellop/setup-workstation/internal/shell"
	"github.com/panariellop/setup-workstation/internal/state"
)

// overrideAPIBase points GitHub API calls at a test server for one test.
func overrideAPIBase(t *testing.T, url string) {
	t.Helper()
	saved := apiBase
	apiBase = url
	t.Cleanup(func() { apiBase = saved })
}

func TestFetchRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/jesseduffield/lazygit/releases/latest":
			fmt.Fprint(w, `{"tag_name":"v0.44.1","assets":[{"name":"a.tar.gz","browser_download_url":"http://x/a.tar.gz"}]}`)
		case "/repos/jesseduffield/lazygit/releases/tags/v0.40.0":
			fmt.Fprint(w, `{"tag_name":"v0.40.0","assets":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	overrideAPIBase(t, srv.URL)

	t.Run("empty tag selects latest", func(t *testing.T) {
		rel, err := fetchRelease(&manifest.Release{Repo: "jesseduffield/lazygit"})
		require.NoError(t, err)
		assert.Equal(t, "v0.44.1", rel.TagName)
		require.Len(t, rel.Assets, 1)
	})

	t.Run("pinned tag", func(t *testing.T) {
		rel, err := fetchRelease(&manifest.Release{Repo: "jesseduffield/lazygit", Tag: "v0.40.0"})
		require.NoError(t, err)
		assert.Equal(t, "v0.40.0", rel.TagName)
	})

	t.Run("missing release reports the status", func(t *testing.T) {
		_, err := fetchRelease(&manifest.Release{Repo: "jesseduffield/lazygit", Tag: "v9.9.9"})
		assert.ErrorContains(t, err, "HTTP 404")
	})
}

func TestPickAsset(t *testing.T) {
	release := &GitHubRelease{TagName: "v1.2.3"}
	for _, name := range []string{
		"lazygit_1.2.3_Linux_x86_64.tar.gz",
		"lazygit_1.2.3_Linux_arm64.tar.gz",
		"lazygit_1.2.3_Darwin_arm64.tar.gz",
		"lazygit_1.2.3_Darwin_x86_64.tar.gz",
		"lazygit_1.2.3_checksums.txt",
		"lazygit_1.2.3_Windows_x86_64.zip",
	} {
		release.Assets = append(release.Assets, struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		}{Name: name, BrowserDownloadURL: "http://assets/" + name})
	}

	t.Run("linux amd64", func(t *testing.T) {
		_, name, err := pickAsset(release, "linux", "amd64")
		require.NoError(t, err)
		assert.Equal(t, "lazygit_1.2.3_Linux_x86_64.tar.gz", name)
	})

	t.Run("darwin arm64", func(t *testing.T) {
		_, name, err := pickAsset(release, "darwin", "arm64")
		require.NoError(t, err)
		assert.Equal(t, "lazygit_1.2.3_Darwin_arm64.tar.gz", name)
	})

	t.Run("checksums are never selected", func(t *testing.T) {
		url, _, err := pickAsset(release, "linux", "arm64")
		require.NoError(t, err)
		assert.NotContains(t, url, "checksums")
	})

	t.Run("no match", func(t *testing.T) {
		_, _, err := pickAsset(release, "plan9", "mips")
		assert.ErrorContains(t, err, "no asset matches")
	})
}

func TestAssetPatterns(t *testing.T) {
	assert.Contains(t, assetPatterns("linux", "amd64"), "linux_x86_64")
	assert.Contains(t, assetPatterns("darwin", "arm64"), "macos_aarch64")
	assert.Equal(t, "linux_amd64", assetPatterns("linux", "amd64")[0], "exact GOOS_GOARCH is tried first")
}

// TestInstallRelease_EndToEnd drives the whole fallback path: release
// lookup, asset selection, download (faked by pre-building the archive at
// the download target) and extraction into a test bin directory.
func TestInstallRelease_EndToEnd(t *testing.T) {
	assetName := fmt.Sprintf("lazygit_9.9.9_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	archivePath := filepath.Join(os.TempDir(), assetName)
	writeTarGz(t, archivePath, []tarEntry{
		{name: "lazygit", body: "binary", mode: 0o755},
	})
	t.Cleanup(func() {
		os.Remove(archivePath)
		os.Remove(filepath.Join(os.TempDir(), "lazygit"))
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name":"v9.9.9","assets":[{"name":%q,"browser_download_url":"http://assets/%s"}]}`,
			assetName, assetName)
	}))
	defer srv.Close()
	overrideAPIBase(t, srv.URL)

	system := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.MkdirAll(system, 0o755))
	overrideBinDirs(t, system, filepath.Join(t.TempDir(), "unused"))

	fake := &shell.Fake{}
	mgr, err := platform.ManagerFor("linux", fake)
	require.NoError(t, err)
	inst := New(mgr, state.LoadState(filepath.Join(t.TempDir(), "state.json")), fake)

	installed, err := inst.installRelease("lazygit", &manifest.Release{Repo: "jesseduffield/lazygit"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(system, "lazygit"), installed)
	assert.FileExists(t, installed)

	require.Len(t, fake.Calls, 1)
	assert.Contains(t, fake.Calls[0], "curl -L http://assets/"+assetName)
}
