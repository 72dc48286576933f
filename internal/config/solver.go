// Package config loads solver tuning parameters from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/resonance.report/internal/scan"
)

// SolverConfig represents the tunable solver constants. All fields are
// optional pointers so partial config files are safe: omitted fields keep
// their defaults through the Get* accessors.
type SolverConfig struct {
	// Scan params
	StepHz              *float64 `json:"step_hz,omitempty"`
	StartGHz            *float64 `json:"start_ghz,omitempty"`
	MaxSteps            *int     `json:"max_steps,omitempty"`
	DiscontinuityFilter *bool    `json:"discontinuity_filter,omitempty"`

	// Refinement params
	RefineMargin *float64 `json:"refine_margin,omitempty"`

	// Evaluator selection: the legacy ratio formulation instead of the
	// division-free one.
	LegacyRatioForm *bool `json:"legacy_ratio_form,omitempty"`
}

// EmptySolverConfig returns a SolverConfig with all fields set to nil.
func EmptySolverConfig() *SolverConfig {
	return &SolverConfig{}
}

// LoadSolverConfig loads a SolverConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size. Fields omitted from the JSON retain their default values.
func LoadSolverConfig(path string) (*SolverConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySolverConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SolverConfig) Validate() error {
	if c.StepHz != nil && *c.StepHz <= 0 {
		return fmt.Errorf("step_hz must be positive, got %f", *c.StepHz)
	}
	if c.StartGHz != nil && *c.StartGHz <= 0 {
		return fmt.Errorf("start_ghz must be positive, got %f", *c.StartGHz)
	}
	if c.MaxSteps != nil && *c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", *c.MaxSteps)
	}
	if c.RefineMargin != nil && *c.RefineMargin <= 0 {
		return fmt.Errorf("refine_margin must be positive, got %f", *c.RefineMargin)
	}
	return nil
}

// GetStepHz returns the step_hz value or the default.
func (c *SolverConfig) GetStepHz() float64 {
	if c.StepHz == nil {
		return scan.DefaultStepHz
	}
	return *c.StepHz
}

// GetStartGHz returns the start_ghz value or the default.
func (c *SolverConfig) GetStartGHz() float64 {
	if c.StartGHz == nil {
		return scan.DefaultStartGHz
	}
	return *c.StartGHz
}

// GetMaxSteps returns the max_steps value or the default.
func (c *SolverConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return scan.DefaultMaxSteps
	}
	return *c.MaxSteps
}

// GetDiscontinuityFilter returns the discontinuity_filter value or the default.
func (c *SolverConfig) GetDiscontinuityFilter() bool {
	if c.DiscontinuityFilter == nil {
		return false // default: the division-free form needs no filter
	}
	return *c.DiscontinuityFilter
}

// GetRefineMargin returns the refine_margin value or the default.
func (c *SolverConfig) GetRefineMargin() float64 {
	if c.RefineMargin == nil {
		return scan.DefaultRefineMargin
	}
	return *c.RefineMargin
}

// GetLegacyRatioForm returns the legacy_ratio_form value or the default.
func (c *SolverConfig) GetLegacyRatioForm() bool {
	if c.LegacyRatioForm == nil {
		return false
	}
	return *c.LegacyRatioForm
}
