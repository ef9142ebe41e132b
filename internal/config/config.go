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
	LogDir string `toml:"log_dir"`
}

// Tools contains the external binaries the runner shells out to.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the batch history ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Installer contains configuration for file-manager context-menu output.
type Installer struct {
	MenuLabel  string   `toml:"menu_label"`
	Extensions []string `toml:"extensions"`
}

// Thumbs contains contact-sheet generation settings: the thumbnail grid and
// the pixel geometry of each sheet.
type Thumbs struct {
	Cols      int `toml:"cols"`
	Rows      int `toml:"rows"`
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	GapPx     int `toml:"gap_px"`
	MarginPx  int `toml:"margin_px"`
}

// Variant describes one named encode configuration: the output naming
// template plus the full encoder parameter set passed to both passes.
type Variant struct {
	Name            string `toml:"name"`
	Suffix          string `toml:"suffix"`
	Container       string `toml:"container"`
	Codec           string `toml:"codec"`
	BitrateKbps     int    `toml:"bitrate_kbps"`
	MaxrateKbps     int    `toml:"maxrate_kbps"`
	BufsizeKbps     int    `toml:"bufsize_kbps"`
	RateControl     string `toml:"rate_control"`
	Preset          string `toml:"preset"`
	Tune            string `toml:"tune"`
	Profile         string `toml:"profile"`
	LookaheadFrames int    `toml:"lookahead_frames"`
	SpatialAQ       bool   `toml:"spatial_aq"`
	BFrames         int    `toml:"b_frames"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections by subsystem:
//   - Paths: log directory (also holds the history database and run lock)
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Logging: log format and level
//   - History: batch history ledger toggle
//   - Installer: context-menu label and recognized container extensions
//   - Thumbs: contact-sheet grid and geometry
//   - Variants: the named codec/bitrate/container encode variants
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`
	Installer Installer `toml:"installer"`
	Thumbs    Thumbs    `toml:"thumbs"`
	Variants  []Variant `toml:"variant"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
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

	projectPath, err := filepath.Abs("reel.toml")
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

// EnsureDirectories creates required directories for runner operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// VariantByName returns the variant with the given name, matched case-insensitively.
func (c *Config) VariantByName(name string) (Variant, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, v := range c.Variants {
		if strings.ToLower(v.Name) == needle {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns the first configured variant.
func (c *Config) DefaultVariant() Variant {
	if len(c.Variants) == 0 {
		return Variant{}
	}
	return c.Variants[0]
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
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
