package installer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
)

// GitHubRelease mirrors the fields read from the release JSON response.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// apiBase is the GitHub API root. Tests point it at a local server.
var apiBase = "https://api.github.com"

// archiveSuffixes are the asset formats the extractor understands.
var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip", ".7z"}

// installRelease downloads a release archive matching the host platform,
// extracts it, and installs the executable into a bin directory. Returns
// the installed path.
func (i *Installer) installRelease(name string, rel *manifest.Release) (string, error) {
	release, err := fetchRelease(rel)
	if err != nil {
		return "", err
	}
	logger.Debug("[DEBUG] Release %s has %d assets\n", release.TagName, len(release.Assets))

	assetURL, assetName, err := pickAsset(release, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	archive := filepath.Join(os.TempDir(), path.Base(assetURL))
	logger.Info("[INFO] Downloading %s to %s\n", assetName, archive)
	output, err := i.run.Run("curl", "-L", assetURL, "-o", archive)
	if err != nil {
		return "", fmt.Errorf("download %s: %v\nOutput: %s", assetName, err, output)
	}

	installed, err := ExtractAndInstall(archive, os.TempDir())
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", assetName, err)
	}
	return installed, nil
}

// fetchRelease retrieves release metadata from the GitHub API. An empty
// tag selects the latest release.
func fetchRelease(rel *manifest.Release) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", apiBase, rel.Repo)
	if rel.Tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", apiBase, rel.Repo, rel.Tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch release for %s: %w", rel.Repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release fetch for %s returned HTTP %d", rel.Repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release JSON for %s: %w", rel.Repo, err)
	}
	return &release, nil
}

// pickAsset selects the first downloadable archive whose name matches the
// host platform, trying the most specific patterns first.
func pickAsset(release *GitHubRelease, goos, goarch string) (string, string, error) {
	for _, pattern := range assetPatterns(goos, goarch) {
		for _, asset := range release.Assets {
			lower := strings.ToLower(asset.Name)
			if strings.Contains(lower, pattern) && supportedArchive(lower) {
				logger.Debug("[DEBUG] Matched asset %s against %s\n", asset.Name, pattern)
				return asset.BrowserDownloadURL, asset.Name, nil
			}
		}
	}
	return "", "", fmt.Errorf("no asset matches %s/%s in release %s", goos, goarch, release.TagName)
}

func supportedArchive(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// assetPatterns returns the lowercase "os_arch" substrings tried against
// asset names. Release archives spell platforms every way imaginable
// (Linux_x86_64, darwin-arm64, macOS_amd64), so both separators and the
// common architecture aliases are covered.
func assetPatterns(goos, goarch string) []string {
	oses := []string{goos}
	if goos == "darwin" {
		oses = append(oses, "macos")
	}

	arches := []string{goarch}
	switch goarch {
	case "amd64":
		arches = append(arches, "x86_64", "x64")
	case "arm64":
		arches = append(arches, "aarch64")
	}

	var patterns []string
	for _, o := range oses {
		for _, a := range arches {
			patterns = append(patterns, o+"_"+a, o+"-"+a)
		}
	}
	return patterns
}
