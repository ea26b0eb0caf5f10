package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for the kiosk, stored in
// ~/.taller/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	// DataDir is where collections (and the sqlite database) live.
	DataDir string `json:"data_dir"`
	// Storage selects the persistence backend: "json" or "sqlite".
	Storage string `json:"storage"`
	// AdminPassword gates the administration panel. Plain text comparison.
	AdminPassword string `json:"admin_password"`
	// Listen is the HTTP address used by `taller serve`.
	Listen string `json:"listen"`
}

const (
	// DefaultStorage keeps collections as JSON files in the data directory.
	DefaultStorage = "json"
	// DefaultAdminPassword matches the original kiosk build. Change it in
	// config.json before putting the kiosk on the shop floor.
	DefaultAdminPassword = "admin123"
	// DefaultListen is the HTTP listen address for the kiosk frontend.
	DefaultListen = ":8080"
)

// BaseDir returns the root data directory (~/.taller).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".taller"), nil
}

// defaultConfig returns a Config pre-filled with built-in defaults.
func defaultConfig() Config {
	base, _ := BaseDir()
	return Config{
		DataDir:       base,
		Storage:       DefaultStorage,
		AdminPassword: DefaultAdminPassword,
		Listen:        DefaultListen,
	}
}

// configTemplate is the annotated config written on first run. Lines whose
// trimmed content starts with // are stripped before JSON parsing, allowing
// human-readable documentation inside the file.
const configTemplate = `// taller configuration – ~/.taller/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise the kiosk.
{
  // Directory holding the persisted collections. Defaults to ~/.taller.
  "data_dir": "",

  // Persistence backend for the collections.
  // • "json"   – one JSON file per collection in data_dir (default)
  // • "sqlite" – a single taller.db database file in data_dir
  "storage": "json",

  // Passphrase for the administration panel. Compared in plain text; the
  // kiosk has no real authentication. Change this before deployment.
  "admin_password": "admin123",

  // HTTP listen address used by: taller serve
  "listen": ":8080"
}
`

// configFilePath returns the path to ~/.taller/config.json.
func configFilePath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Only full-line comments are handled.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.taller/config.json, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so operators can discover
		// the options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadFile reads an explicit config file. Used by tests and the --config
// flag.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (Config, error) {
	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get a
	// usable Config even if the operator only partially fills in the file.
	defaults := defaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.Storage == "" {
		cfg.Storage = DefaultStorage
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = DefaultAdminPassword
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
