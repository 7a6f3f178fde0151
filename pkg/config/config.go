// Package config loads the YAML host configuration that selects linters, the
// files they apply to and their options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultFileName is looked up in the project root when no path is given.
	DefaultFileName = ".lintconfig.yml"

	EnvConfig = "LINT_CONFIG"
	EnvJobs   = "LINT_JOBS"
)

type Config struct {
	Logger  Logger            `yaml:"logger"`
	Runner  Runner            `yaml:"runner"`
	Linters map[string]Linter `yaml:"linters"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type Runner struct {
	Jobs int `yaml:"jobs"`
	// Timeout bounds a single tool invocation. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	// MetricsFile receives the prometheus text exposition after a run.
	MetricsFile string `yaml:"metrics_file"`
}

// Linter is one configured linter. The map key in Config.Linters is an
// arbitrary label; Type names the adapter and defaults to the label.
type Linter struct {
	Type    string                 `yaml:"type"`
	Include []string               `yaml:"include"`
	Exclude []string               `yaml:"exclude"`
	Options map[string]interface{} `yaml:"options"`

	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// Matches reports whether path is selected by the include and exclude patterns.
// A linter without include patterns applies to every path.
func (l *Linter) Matches(path string) bool {
	if len(l.include) > 0 && !anyMatch(l.include, path) {
		return false
	}
	return !anyMatch(l.exclude, path)
}

func anyMatch(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// NewConfig reads configPath.
func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfig resolves the configuration file path (explicit path, then
// LINT_CONFIG, then DefaultFileName in root) and reads it. A missing default
// file yields an empty configuration.
func LoadConfig(path, root string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		explicit = false
		path = filepath.Join(root, DefaultFileName)
	}

	cfg, err := NewConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	return cfg, nil
}
