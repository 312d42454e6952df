package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	settingsFileName = "config"
	settingsFileType = "yaml"
	settingsFileFull = "config.yaml"

	// Settings keys read from config.yaml.
	settingsKeyManifest = "manifest_file"
	settingsKeyState    = "state_file"
)

// defaultSettingsYAML is written to config.yaml on first run so the file
// documents itself.
const defaultSettingsYAML = `# setup-workstation configuration.

# Path to a custom tool manifest (YAML). Empty uses the built-in table.
# manifest_file:

# Path to the state file. Empty uses the platform default.
# state_file:
`

// loadSettings reads config.yaml from the resolved config directory. The
// directory and a commented default file are created on first run; a
// missing file is not an error.
func loadSettings(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultSettingsFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(settingsFileName)
	v.SetConfigType(settingsFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultSettingsFile creates a default config.yaml if none exists.
func ensureDefaultSettingsFile(configDir string) error {
	path := filepath.Join(configDir, settingsFileFull)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}
