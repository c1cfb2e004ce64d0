package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/blobtags/internal/serializer"
)

var (
	// ErrMissingProcessID indicates batch mode without a worker identifier
	ErrMissingProcessID = errors.New("missing " + ProcessIDEnv)

	// ErrInvalidProcessID indicates a worker identifier that cannot name a file
	ErrInvalidProcessID = errors.New("invalid " + ProcessIDEnv)

	// ErrInvalidPrefix indicates an unusable output file prefix
	ErrInvalidPrefix = errors.New("invalid output prefix")

	// ErrInvalidFormat indicates an unsupported blob format
	ErrInvalidFormat = errors.New("invalid input format")
)

// Validate checks settings that apply to every invocation.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateInput(&cfg.Input); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

// ValidateBatch checks everything Validate does plus the worker identity,
// which batch mode needs to name its output file.
func ValidateBatch(cfg *Config) error {
	var errs []error

	if err := Validate(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateWorker(&cfg.Worker); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateWorker(cfg *WorkerConfig) error {
	id := cfg.ProcessID
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s must be set in batch mode", ErrMissingProcessID, ProcessIDEnv)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q is not a valid file name component", ErrInvalidProcessID, id)
	}
	return nil
}

func validateInput(cfg *InputConfig) error {
	if _, err := serializer.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("%w: must be 'binary' or 'json', got '%s'", ErrInvalidFormat, cfg.Format)
	}
	return nil
}

func validateOutput(cfg *OutputConfig) error {
	if strings.TrimSpace(cfg.Prefix) == "" {
		return fmt.Errorf("%w: prefix is required", ErrInvalidPrefix)
	}
	if strings.ContainsAny(cfg.Prefix, `/\`) {
		return fmt.Errorf("%w: prefix must not contain path separators, got '%s'", ErrInvalidPrefix, cfg.Prefix)
	}
	return nil
}

// joinErrors combines multiple errors into a single error, keeping every
// sentinel reachable through errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
