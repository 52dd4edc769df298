package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the storyspec configuration.
type Config struct {
	StoryRoot string `json:"storyRoot,omitempty" yaml:"storyRoot,omitempty"`

	// Story controls
	DryRun                           *bool `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	ResetStateBeforeStory            *bool `json:"resetStateBeforeStory,omitempty" yaml:"resetStateBeforeStory,omitempty"`
	ResetStateBeforeScenario         *bool `json:"resetStateBeforeScenario,omitempty" yaml:"resetStateBeforeScenario,omitempty"`
	SkipScenariosAfterFailure        *bool `json:"skipScenariosAfterFailure,omitempty" yaml:"skipScenariosAfterFailure,omitempty"`
	SkipScenarioHooksForGivenStories *bool `json:"skipScenarioHooksForGivenStories,omitempty" yaml:"skipScenarioHooksForGivenStories,omitempty"`

	// Strategies: failureStrategy is "rethrow" or "silent";
	// pendingStepStrategy is "passing" or "failing".
	FailureStrategy     string `json:"failureStrategy,omitempty" yaml:"failureStrategy,omitempty"`
	PendingStepStrategy string `json:"pendingStepStrategy,omitempty" yaml:"pendingStepStrategy,omitempty"`

	MetaFilter string `json:"metaFilter,omitempty" yaml:"metaFilter,omitempty"`

	Reporters  []string `json:"reporters,omitempty" yaml:"reporters,omitempty"`
	OutputDir  string   `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	NoColor    *bool    `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Verbose    *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	HistoryDB  string   `json:"historyDb,omitempty" yaml:"historyDb,omitempty"`
	WebhookURL string   `json:"webhookUrl,omitempty" yaml:"webhookUrl,omitempty"`
	NotifyOn   string   `json:"notifyOn,omitempty" yaml:"notifyOn,omitempty"`
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetDryRun returns the dry run setting, defaulting to false.
func (c *Config) GetDryRun() bool {
	return getBool(c.DryRun, false)
}

// GetResetStateBeforeStory defaults to false so given stories inherit the
// parent's accumulated state.
func (c *Config) GetResetStateBeforeStory() bool {
	return getBool(c.ResetStateBeforeStory, false)
}

// GetResetStateBeforeScenario defaults to true.
func (c *Config) GetResetStateBeforeScenario() bool {
	return getBool(c.ResetStateBeforeScenario, true)
}

// GetSkipScenariosAfterFailure defaults to false.
func (c *Config) GetSkipScenariosAfterFailure() bool {
	return getBool(c.SkipScenariosAfterFailure, false)
}

// GetSkipScenarioHooksForGivenStories defaults to false.
func (c *Config) GetSkipScenarioHooksForGivenStories() bool {
	return getBool(c.SkipScenarioHooksForGivenStories, false)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetVerbose returns the verbose setting, defaulting to false.
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// ConfigFilenames contains the possible config file names.
var ConfigFilenames = []string{
	".storyspec.config.json",
	"storyspec.config.json",
	".storyspec.yaml",
	"storyspec.yaml",
	".storyspec.yml",
	"storyspec.yml",
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// falling back to defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return cfg, nil
}
