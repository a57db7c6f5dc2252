package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"skare/internal/submit"
	"skare/internal/table"
)

// FileConfig is the content of config.yaml.
type FileConfig struct {
	DefaultPreset        string `yaml:"default_preset,omitempty"`        // basic, dietary, health, contact, all
	Locale               string `yaml:"locale,omitempty"`                // BCP 47 tag used to sort names
	LoadingText          string `yaml:"loading_text,omitempty"`          // save button label while saving
	RegistrationDeadline string `yaml:"registration_deadline,omitempty"` // YYYY-MM-DD [HH:MM], local time
	SetupCompleted       bool   `yaml:"setup_completed,omitempty"`
}

// DefaultFileConfig returns the settings used when no config file exists.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		DefaultPreset: table.PresetBasic,
		Locale:        "cs",
	}
}

// LoadFileConfig reads config from path. A missing file yields the defaults.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DefaultPreset = strings.ToLower(strings.TrimSpace(cfg.DefaultPreset))
	return cfg, nil
}

// SaveFileConfig writes cfg to path.
func SaveFileConfig(cfg FileConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the preset name and parses the locale.
func (c FileConfig) Validate() (language.Tag, error) {
	if c.DefaultPreset != "" && !table.IsPreset(c.DefaultPreset) {
		return language.Und, fmt.Errorf("unknown default_preset %q (want one of %s)",
			c.DefaultPreset, strings.Join(table.Presets(), ", "))
	}
	if c.Locale == "" {
		return table.DefaultLocale, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Deadline parses registration_deadline. A bare date closes registration at
// the end of that day.
func (c FileConfig) Deadline() (submit.Deadline, error) {
	value := strings.TrimSpace(c.RegistrationDeadline)
	if value == "" {
		return submit.Deadline{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return submit.Deadline{At: t}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return submit.Deadline{}, fmt.Errorf("invalid registration_deadline %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", value)
	}
	return submit.Deadline{At: day.Add(24*time.Hour - time.Second)}, nil
}
