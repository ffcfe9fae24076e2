// Package config loads ssoctl's own settings file and resolves the paths of
// the AWS shared files it manages. Settings are optional; every field has a
// flag or environment override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings is the tool's configuration, read from
// $XDG_CONFIG_HOME/ssoctl/config.yaml.
type Settings struct {
	SSO struct {
		StartURL string `yaml:"start_url"`
		Region   string `yaml:"region"`
		Session  string `yaml:"session"`
	} `yaml:"sso"`
	ProfileDefaults struct {
		Region string `yaml:"region"`
		Output string `yaml:"output"`
	} `yaml:"profile_defaults"`
}

// SettingsPath resolves the settings file location: $XDG_CONFIG_HOME when
// set, ~/.config otherwise.
func SettingsPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ssoctl", "config.yaml"), nil
}

// LoadSettings reads the settings file and applies environment overrides.
// A missing file yields zero-value settings, not an error.
func LoadSettings(fs afero.Fs, path string) (*Settings, error) {
	var s Settings
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv("AWS_SSO_START_URL"); v != "" {
		s.SSO.StartURL = v
	}
	if v := os.Getenv("AWS_SSO_REGION"); v != "" {
		s.SSO.Region = v
	}
	return &s, nil
}

// SaveSettings writes the settings file, creating parent directories as
// needed.
func SaveSettings(fs afero.Fs, path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Paths locates every file the tool touches in one place.
type Paths struct {
	AWSDir          string
	ConfigFile      string
	CredentialsFile string
	TokenCacheDir   string
	RoleCacheDir    string
}

// ResolvePaths derives file locations from the home directory, honoring the
// AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE overrides the AWS CLI
// recognizes.
func ResolvePaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	awsDir := filepath.Join(home, ".aws")

	p := Paths{
		AWSDir:          awsDir,
		ConfigFile:      filepath.Join(awsDir, "config"),
		CredentialsFile: filepath.Join(awsDir, "credentials"),
		TokenCacheDir:   filepath.Join(awsDir, "sso", "cache"),
		RoleCacheDir:    filepath.Join(awsDir, "cli", "cache"),
	}
	if v := os.Getenv("AWS_CONFIG_FILE"); v != "" {
		p.ConfigFile = v
	}
	if v := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); v != "" {
		p.CredentialsFile = v
	}
	return p, nil
}
