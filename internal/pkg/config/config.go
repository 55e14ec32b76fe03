/*
config.go Run configuration of the assembly tool. Files are JSON, as every other
configuration in this module; YAML is accepted for files ending in .yaml or .yml.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Config represents the static properties of one assembly run.
type Config struct {
	Network           string `json:"Network"`
	Bindings          string `json:"Bindings"`
	Mode              string `json:"Mode"`
	Synchronization   string `json:"Synchronization"`
	MergeLoads        bool   `json:"MergeLoads"`
	MainComponentOnly bool   `json:"MainComponentOnly"`
	Sinks             Sinks  `json:"Sinks"`
	WebAddr           string `json:"WebAddr"`
}

// Sinks holds the configuration file path of every optional snapshot sink.
// An empty path disables the sink.
type Sinks struct {
	MongoDB string `json:"MongoDB"`
	NATS    string `json:"NATS"`
	SQL     string `json:"SQL"`
}

// New parses a JSON run configuration and applies defaults.
func New(jsonConfig []byte) (Config, error) {
	cfg := Config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Network == "" {
		return Config{}, errors.New("config: Network path is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = "strict"
	}
	if cfg.Synchronization == "" {
		cfg.Synchronization = "auto"
	}
	return cfg, nil
}

// Load reads and parses the run configuration at path. Relative file paths in
// the configuration are resolved against the directory of path.
func Load(path string) (Config, error) {
	raw, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := New(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Network = resolve(dir, cfg.Network)
	cfg.Bindings = resolve(dir, cfg.Bindings)
	cfg.Sinks.MongoDB = resolve(dir, cfg.Sinks.MongoDB)
	cfg.Sinks.NATS = resolve(dir, cfg.Sinks.NATS)
	cfg.Sinks.SQL = resolve(dir, cfg.Sinks.SQL)
	return cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Read returns the content of a configuration file as JSON.
func Read(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return converted, nil
	default:
		return raw, nil
	}
}
