// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Frontmatter is the decoded YAML block at the top of a skill document. It
// must carry at least name and schema_version.
type Frontmatter map[string]any

// StepRecord is a decoded step output file. It must carry at least step and
// schema_version; any other content is free-form.
type StepRecord map[string]any

// RunStatus is the outcome of a validation run.
type RunStatus string

const (
	RunPass RunStatus = "pass"
	RunFail RunStatus = "fail"
)

// Run records one validation run in the history log.
type Run struct {
	// ID is a UUID assigned when the run is recorded.
	ID string `json:"id" yaml:"id"`

	// StartedAt is when validation began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is the wall-clock time the run took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Root is the repository root that was validated.
	Root string `json:"root" yaml:"root"`

	Status RunStatus `json:"status" yaml:"status"`

	// Kind is the error kind of a failed run (e.g. "mismatch"); empty on pass.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Message is the single result line printed for the run.
	Message string `json:"message" yaml:"message"`
}
