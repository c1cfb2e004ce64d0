package config

// Config represents the complete blobtags configuration.
// It can be loaded from .blobtags.yaml with environment variable overrides.
type Config struct {
	Worker WorkerConfig `yaml:"worker" mapstructure:"worker"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// WorkerConfig identifies the worker process in a distributed run.
type WorkerConfig struct {
	ProcessID string `yaml:"process_id" mapstructure:"process_id"` // from PROCESS_ID; required in batch mode
}

// InputConfig describes how blobs are decoded.
type InputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "binary" or "json"
}

// OutputConfig controls where batch output goes and how progress is shown.
type OutputConfig struct {
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`     // per-worker file is <outdir>/<prefix><process_id>
	Progress bool   `yaml:"progress" mapstructure:"progress"` // progress bar on stderr in batch mode
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format: "binary",
		},
		Output: OutputConfig{
			Prefix:   "output-",
			Progress: false,
		},
	}
}
