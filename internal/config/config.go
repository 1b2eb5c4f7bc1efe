package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	VaultDir string `toml:"vault_dir"`
	LogDir   string `toml:"log_dir"`
}

// Conversion contains configuration for the note-to-Markdown rendering step.
type Conversion struct {
	AttachmentFolder string `toml:"attachment_folder"`
	SaveAttachments  bool   `toml:"save_attachments"`
	DateFormat       string `toml:"date_format"`
	SourceLabel      string `toml:"source_label"`
}

// Metadata toggles individual frontmatter fields. The header is omitted
// entirely when every field is disabled.
type Metadata struct {
	Title           bool `toml:"title"`
	Created         bool `toml:"created"`
	Updated         bool `toml:"updated"`
	Tags            bool `toml:"tags"`
	Notebook        bool `toml:"notebook"`
	Source          bool `toml:"source"`
	Author          bool `toml:"author"`
	SourceURL       bool `toml:"source_url"`
	AttachmentCount bool `toml:"attachment_count"`
}

// Organization contains configuration for vault folder layout and filename
// collision handling.
type Organization struct {
	Mode                string `toml:"mode"`
	DateFolderFormat    string `toml:"date_folder_format"`
	CollisionPolicy     string `toml:"collision_policy"`
	MaxFilenameLength   int    `toml:"max_filename_length"`
	SanitizePlaceholder string `toml:"sanitize_placeholder"`
	WriteIndex          bool   `toml:"write_index"`
}

// Sync contains configuration for the incremental migration history.
type Sync struct {
	Enabled            bool `toml:"enabled"`
	ReconcileDeletions bool `toml:"reconcile_deletions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for notemill.
//
// Configuration sections by subsystem:
//   - Paths: vault root and log directory
//   - Conversion: rendering knobs (attachments, date format, source label)
//   - Metadata: per-field frontmatter toggles
//   - Organization: folder layout mode and collision policy
//   - Sync: incremental history and deletion reconciliation
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Conversion   Conversion   `toml:"conversion"`
	Metadata     Metadata     `toml:"metadata"`
	Organization Organization `toml:"organization"`
	Sync         Sync         `toml:"sync"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/notemill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("notemill.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the vault and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.VaultDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
