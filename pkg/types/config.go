// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default layout of a skill repository.
const (
	DefaultPrimaryDoc   = "SKILL.md"
	DefaultLocalizedDoc = "SKILL.zh-TW.md"
	DefaultStepsDir     = "examples/02-intermediate/steps"
	DefaultStepPattern  = "step%d.yaml"
	DefaultStepCount    = 6
	DefaultHistoryPath  = ".repo-validator/history.db"
)

// ValidatorConfig locates the files checked by a validation run. All paths
// other than Root are relative to Root.
type ValidatorConfig struct {
	// Root is the repository root directory.
	Root string `json:"root" yaml:"root"`

	// PrimaryDoc is the document whose schema_version is canonical.
	PrimaryDoc string `json:"primary_doc" yaml:"primary_doc"`

	// LocalizedDoc is the translated counterpart of PrimaryDoc.
	LocalizedDoc string `json:"localized_doc" yaml:"localized_doc"`

	// StepsDir holds the indexed step files.
	StepsDir string `json:"steps_dir" yaml:"steps_dir"`

	// StepPattern is a fmt pattern that turns a step index into a file name.
	StepPattern string `json:"step_pattern" yaml:"step_pattern"`

	// StepCount is the number of step files, indexed from zero (default 6).
	StepCount int `json:"step_count" yaml:"step_count"`
}

// DefaultValidatorConfig returns the fixed skill repository layout rooted at root.
func DefaultValidatorConfig(root string) ValidatorConfig {
	return ValidatorConfig{
		Root:         root,
		PrimaryDoc:   DefaultPrimaryDoc,
		LocalizedDoc: DefaultLocalizedDoc,
		StepsDir:     DefaultStepsDir,
		StepPattern:  DefaultStepPattern,
		StepCount:    DefaultStepCount,
	}
}

// WithDefaults fills zero-valued fields from DefaultValidatorConfig.
func (c ValidatorConfig) WithDefaults() ValidatorConfig {
	d := DefaultValidatorConfig(c.Root)
	if c.Root == "" {
		c.Root = "."
	}
	if c.PrimaryDoc == "" {
		c.PrimaryDoc = d.PrimaryDoc
	}
	if c.LocalizedDoc == "" {
		c.LocalizedDoc = d.LocalizedDoc
	}
	if c.StepsDir == "" {
		c.StepsDir = d.StepsDir
	}
	if c.StepPattern == "" {
		c.StepPattern = d.StepPattern
	}
	if c.StepCount <= 0 {
		c.StepCount = d.StepCount
	}
	return c
}

// HistoryConfig controls the SQLite run log.
type HistoryConfig struct {
	// Enabled records every validation run when true.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the database file, relative to the repository root unless absolute.
	Path string `json:"path" yaml:"path"`
}

// WatchConfig controls re-validation on file changes.
type WatchConfig struct {
	// Debounce is how long to wait for further changes before re-running (default 300ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}
