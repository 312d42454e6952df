package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/xi2/xz"

	"github.com/panariellop/setup-workstation/internal/logger"
)

// binDirs holds the install destinations. The system directory is tried
// first; when it is not writable the user fallback is created and used.
// Tests point both at temporary directories.
var binDirs = struct {
	system       string
	userFallback func() (string, error)
}{
	system: "/usr/local/bin",
	userFallback: func() (string, error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "bin"), nil
	},
}

// ExtractAndInstall extracts an archive and copies its executable(s) into
// the system bin directory, falling back to the user's ~/bin. Returns the
// final path of the first installed executable.
func ExtractAndInstall(src, dest string) (string, error) {
	extractedPath, err := ExtractArchive(src, dest)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(extractedPath)
	if err != nil {
		return "", err
	}

	// The archive filename carries the tool name; executables are matched
	// against it so README scripts and completions are not installed.
	toolName := toolNameFromArchive(src)

	var binaries []string
	if info.IsDir() {
		binaries, err = findExecutables(extractedPath, toolName)
		if err != nil {
			return "", fmt.Errorf("no binary found in %s: %w", extractedPath, err)
		}
	} else {
		binaries = []string{extractedPath}
	}

	destination := binDirs.system
	for _, binaryPath := range binaries {
		if err := copyBinary(binaryPath, destination); err != nil {
			homeBin, herr := binDirs.userFallback()
			if herr != nil {
				return "", fmt.Errorf("no writable bin directory: %w", herr)
			}
			if err := os.MkdirAll(homeBin, 0755); err != nil {
				return "", fmt.Errorf("cannot create fallback bin directory: %w", err)
			}
			destination = homeBin
			if err := copyBinary(binaryPath, homeBin); err != nil {
				return "", fmt.Errorf("copy binary to fallback location: %w", err)
			}
		}
	}

	return filepath.Join(destination, filepath.Base(binaries[0])), nil
}

// toolNameFromArchive derives the tool name from an archive path:
// "/tmp/lazygit_0.44.1_Linux_x86_64.tar.gz" yields "lazygit".
func toolNameFromArchive(path string) string {
	filename := filepath.Base(path)

	for _, ext := range archiveSuffixes {
		if strings.HasSuffix(filename, ext) {
			filename = strings.TrimSuffix(filename, ext)
			break
		}
	}

	parts := strings.FieldsFunc(filename, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) > 0 {
		return parts[0]
	}
	return filename
}

// ExtractArchive routes to the extraction function for the archive type
// and returns the top-level extracted path.
func ExtractArchive(src, dest string) (string, error) {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] Extracting zip archive %s\n", src)
		return extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] Extracting 7z archive %s\n", src)
		return extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] Extracting tar archive %s\n", src)
		return extractTarArchive(src, dest)
	default:
		return "", fmt.Errorf("unsupported archive format: %s", src)
	}
}

// extractTarArchive handles tar and its gzip, bzip2 and xz compressed variants.
func extractTarArchive(src, dest string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return "", err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return "", err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	var topLevel string

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		if topLevel == "" {
			topLevel = firstPathComponent(hdr.Name)
		}

		target, err := containedPath(dest, hdr.Name)
		if err != nil {
			return "", err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return "", err
			}
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// extractZip extracts a .zip archive.
func extractZip(src, dest string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		if topLevel == "" {
			topLevel = firstPathComponent(f.Name)
		}
		target, err := containedPath(dest, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// extract7z extracts a .7z archive using the sevenzip library.
func extract7z(src, dest string) (string, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("open 7z archive: %w", err)
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		if topLevel == "" {
			topLevel = firstPathComponent(f.Name)
		}
		target, err := containedPath(dest, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// writeFile creates target's parent directory and streams contents into it.
func writeFile(target string, contents io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, contents); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// containedPath joins an archive entry name onto dest and rejects entries
// that escape it ("../../etc/passwd" style names).
func containedPath(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

func firstPathComponent(name string) string {
	parts := strings.Split(filepath.ToSlash(name), "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return name
}

// findExecutables scans an extracted tree and returns the executables whose
// filename starts with the tool name.
func findExecutables(root, toolName string) ([]string, error) {
	logger.Debug("[DEBUG] Scanning %s for executables\n", root)
	var executables []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !strings.HasPrefix(filepath.Base(path), toolName) {
			return nil
		}

		mode := info.Mode()
		if mode.IsRegular() && mode.Perm()&0111 != 0 {
			logger.Debug("[DEBUG] Found executable: %s\n", path)
			executables = append(executables, path)
			return nil
		}

		// Zip archives frequently drop permission bits; ask file(1) as a
		// last resort.
		out, err := exec.Command("file", "--brief", path).Output()
		if err != nil {
			return nil
		}
		output := strings.ToLower(string(out))
		if strings.Contains(output, "executable") || strings.Contains(output, "mach-o") || strings.Contains(output, "elf") {
			logger.Debug("[DEBUG] Found executable via file(1): %s\n", path)
			executables = append(executables, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	if len(executables) == 0 {
		return nil, fmt.Errorf("no executables named %s* under %s", toolName, root)
	}
	return executables, nil
}

// copyBinary copies a file into a directory with executable permissions.
func copyBinary(src, dstDir string) error {
	dst := filepath.Join(dstDir, filepath.Base(src))
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
