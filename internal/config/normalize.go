package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	c.normalizeInstaller()
	c.normalizeVariants()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		c.Tools.FFmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(c.Tools.FFprobeBinary) == "" {
		c.Tools.FFprobeBinary = "ffprobe"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeInstaller() {
	if strings.TrimSpace(c.Installer.MenuLabel) == "" {
		c.Installer.MenuLabel = defaultMenuLabel
	}
	if len(c.Installer.Extensions) == 0 {
		c.Installer.Extensions = append([]string(nil), defaultExtensions...)
	}
	cleaned := make([]string, 0, len(c.Installer.Extensions))
	for _, ext := range c.Installer.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	c.Installer.Extensions = cleaned
}

func (c *Config) normalizeVariants() {
	for i := range c.Variants {
		v := &c.Variants[i]
		v.Name = strings.TrimSpace(v.Name)
		v.Suffix = strings.Trim(strings.TrimSpace(v.Suffix), ".")
		v.Container = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v.Container), "."))
		v.Codec = strings.TrimSpace(v.Codec)
		v.RateControl = strings.ToLower(strings.TrimSpace(v.RateControl))
		v.Preset = strings.TrimSpace(v.Preset)
		v.Tune = strings.TrimSpace(v.Tune)
		v.Profile = strings.TrimSpace(v.Profile)
	}
}
