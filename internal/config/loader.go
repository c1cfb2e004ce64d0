package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ProcessIDEnv names the environment variable identifying the current worker.
const ProcessIDEnv = "PROCESS_ID"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that looks for .blobtags.yaml in rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file, which must exist.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (BLOBTAGS_*, and PROCESS_ID for the worker id)
// 2. Config file
// 3. Default values
//
// Load does not require a process id; batch callers check it with ValidateBatch.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(".blobtags")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix("BLOBTAGS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The worker id keeps the bare name the job scheduler exports.
	v.BindEnv("worker.process_id", ProcessIDEnv)
	v.BindEnv("input.format")
	v.BindEnv("output.prefix")
	v.BindEnv("output.progress")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("worker.process_id", defaults.Worker.ProcessID)
	v.SetDefault("input.format", defaults.Input.Format)
	v.SetDefault("output.prefix", defaults.Output.Prefix)
	v.SetDefault("output.progress", defaults.Output.Progress)
}

// LoadConfig loads configuration using the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
