package config

import (
	"errors"
	"fmt"
	"strings"
)

var validRateControls = map[string]struct{}{
	"vbr":     {},
	"cbr":     {},
	"constqp": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateInstaller(); err != nil {
		return err
	}
	if err := c.validateThumbs(); err != nil {
		return err
	}
	return c.validateVariants()
}

func (c *Config) validateThumbs() error {
	if c.Thumbs.Cols <= 0 || c.Thumbs.Rows <= 0 {
		return errors.New("thumbs.cols and thumbs.rows must be positive")
	}
	if c.Thumbs.MaxWidth <= 0 || c.Thumbs.MaxHeight <= 0 {
		return errors.New("thumbs.max_width and thumbs.max_height must be positive")
	}
	if c.Thumbs.GapPx < 0 || c.Thumbs.MarginPx < 0 {
		return errors.New("thumbs.gap_px and thumbs.margin_px must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateInstaller() error {
	if len(c.Installer.Extensions) == 0 {
		return errors.New("installer.extensions must list at least one container extension")
	}
	return nil
}

func (c *Config) validateVariants() error {
	if len(c.Variants) == 0 {
		return errors.New("at least one [[variant]] must be configured")
	}
	seen := make(map[string]struct{}, len(c.Variants))
	for i, v := range c.Variants {
		label := v.Name
		if label == "" {
			return fmt.Errorf("variant %d: name must be set", i+1)
		}
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("variant %q: duplicate name", label)
		}
		seen[key] = struct{}{}

		if v.Suffix == "" {
			return fmt.Errorf("variant %q: suffix must be set", label)
		}
		if v.Container == "" {
			return fmt.Errorf("variant %q: container must be set", label)
		}
		if v.Codec == "" {
			return fmt.Errorf("variant %q: codec must be set", label)
		}
		if v.BitrateKbps <= 0 {
			return fmt.Errorf("variant %q: bitrate_kbps must be positive", label)
		}
		if v.MaxrateKbps > 0 && v.MaxrateKbps < v.BitrateKbps {
			return fmt.Errorf("variant %q: maxrate_kbps must be >= bitrate_kbps", label)
		}
		if v.RateControl != "" {
			if _, ok := validRateControls[v.RateControl]; !ok {
				return fmt.Errorf("variant %q: rate_control must be vbr, cbr, or constqp", label)
			}
		}
		if v.LookaheadFrames < 0 {
			return fmt.Errorf("variant %q: lookahead_frames must not be negative", label)
		}
		if v.BFrames < 0 {
			return fmt.Errorf("variant %q: b_frames must not be negative", label)
		}
	}
	return nil
}
