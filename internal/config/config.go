package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileNames lists the configuration file names searched for, in order of preference
var FileNames = []string{"overlay.json", "overlay.yaml", "overlay.yml"}

// Config represents the overlay.json (or overlay.yaml) configuration file
type Config struct {
	Source            SourceConfig `json:"source" yaml:"source"`
	Output            string       `json:"output" yaml:"output"`
	Module            string       `json:"module,omitempty" yaml:"module,omitempty"`
	OldPackagePrefix  string       `json:"oldPackagePrefix,omitempty" yaml:"oldPackagePrefix,omitempty"`
	NewPackagePrefix  string       `json:"newPackagePrefix,omitempty" yaml:"newPackagePrefix,omitempty"`
	GenerateContracts bool         `json:"generateContracts" yaml:"generateContracts"`
	Watch             WatchConfig  `json:"watch" yaml:"watch"`
}

// SourceConfig selects the front end and its inputs
type SourceConfig struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Schema   []string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Packages []string `json:"packages,omitempty" yaml:"packages,omitempty"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Patterns []string `json:"patterns" yaml:"patterns"`
	Exclude  []string `json:"exclude" yaml:"exclude"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	return New("")
}

// New returns a configuration for the given source kind with every default applied
func New(kind string) *Config {
	c := &Config{GenerateContracts: true, Source: SourceConfig{Kind: kind}}
	c.ApplyDefaults()
	return c
}

// LoadConfig loads the configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadConfigFromDir(dir)
}

// LoadConfigFromPath loads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto a preset value keeps generateContracts true unless the file says otherwise
	config := Config{GenerateContracts: true}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// LoadConfigFromDir searches for a configuration file in the given directory and its parents
func LoadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory", FileNames[0], startDir)
}

// Encode renders the configuration in the format the extension of path selects
func (c *Config) Encode(path string) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return data, nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := c.Encode(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "schema":
		if len(c.Source.Schema) == 0 {
			return fmt.Errorf("source.schema must list at least one pattern")
		}
	case "go":
		if len(c.Source.Packages) == 0 {
			return fmt.Errorf("source.packages must list at least one package pattern")
		}
	}
	if (c.OldPackagePrefix == "") != (c.NewPackagePrefix == "") {
		return fmt.Errorf("oldPackagePrefix and newPackagePrefix must be set together")
	}
	return nil
}

// ApplyDefaults fills every unset field
func (c *Config) ApplyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = "schema"
	}
	if c.Source.Kind == "schema" && len(c.Source.Schema) == 0 {
		c.Source.Schema = []string{"*.gql", "schema/*.gql"}
	}
	if c.Source.Kind == "go" && len(c.Source.Packages) == 0 {
		c.Source.Packages = []string{"./..."}
	}
	if c.Output == "" {
		c.Output = "./generated"
	}
	if len(c.Watch.Patterns) == 0 {
		// Set default watch patterns based on source kind
		switch c.Source.Kind {
		case "go":
			c.Watch.Patterns = []string{"*.go", "**/*.go"}
		default:
			c.Watch.Patterns = []string{"*.gql", "**/*.gql", "*.graphql", "**/*.graphql"}
		}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{"*_test.go", ".git/", "vendor/", strings.TrimPrefix(c.Output, "./") + "/"}
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
