package installer

import (
	"fmt"
	"os"

	"github.com/panariellop/setup-workstation/internal/logger"
	"github.com/panariellop/setup-workstation/internal/manifest"
)

// Uninstall removes a tool this CLI installed, using the same source that
// provided it. Tools that were already on the machine before the first run
// are refused, so uninstall can never break a hand-managed setup.
func (i *Installer) Uninstall(tool manifest.Tool) error {
	ts, ok := i.st.Tools[tool.Name]
	if !ok {
		return fmt.Errorf("%s is not tracked in state; nothing to uninstall", tool.Name)
	}
	if !ts.InstalledBySetup {
		return fmt.Errorf("%s was already installed before this tool ran; refusing to remove it", tool.Name)
	}

	logger.Info("[INFO] Uninstalling %s...\n", tool.Name)

	switch ts.Manager {
	case "brew", "apt":
		if ts.Manager != i.mgr.Name {
			return fmt.Errorf("%s was installed with %s but the active manager is %s", tool.Name, ts.Manager, i.mgr.Name)
		}
		pkg, ok := tool.Packages[i.mgr.Name]
		if !ok {
			pkg = tool.Name
		}
		if err := i.mgr.Uninstall(pkg); err != nil {
			return err
		}

	case "github":
		if ts.InstallPath == "" {
			return fmt.Errorf("%s has no recorded install path", tool.Name)
		}
		logger.Debug("[DEBUG] Removing %s\n", ts.InstallPath)
		if err := os.Remove(ts.InstallPath); err != nil {
			return fmt.Errorf("remove %s: %w", ts.InstallPath, err)
		}

	case "npm":
		output, err := i.run.Run("npm", "uninstall", "-g", tool.Name)
		if err != nil {
			logger.Error("[ERROR] npm uninstall failed: %v\nOutput: %s\n", err, output)
			return err
		}

	case "nvm":
		return fmt.Errorf("%s is managed by nvm; remove versions with 'nvm uninstall'", tool.Name)

	default:
		return fmt.Errorf("%s has an unknown install source %q", tool.Name, ts.Manager)
	}

	delete(i.st.Tools, tool.Name)
	logger.Info("[INFO] Uninstalled %s\n", tool.Name)
	return nil
}
