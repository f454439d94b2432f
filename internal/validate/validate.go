// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a skill repository for consistency: the primary and
// localized skill documents must agree on name and schema_version, and every
// step output file must carry the right step index, the canonical schema
// version, and no fenced code blocks inside YAML strings.
//
// Validation stops at the first violation and reports it as an *Error.
package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/repo-validator/internal/frontmatter"
	"github.com/pdiddy/repo-validator/pkg/types"
)

const (
	nameKey          = "name"
	schemaVersionKey = "schema_version"
	stepKey          = "step"
)

// Validator runs the repository checks described by a ValidatorConfig.
type Validator struct {
	cfg types.ValidatorConfig
}

// New returns a Validator for cfg. Zero-valued fields take the defaults from
// types.DefaultValidatorConfig.
func New(cfg types.ValidatorConfig) *Validator {
	return &Validator{cfg: cfg.WithDefaults()}
}

// Config returns the effective configuration.
func (v *Validator) Config() types.ValidatorConfig {
	return v.cfg
}

// Run validates the repository. It returns nil when every check passes and
// the first violation otherwise.
func (v *Validator) Run(ctx context.Context) error {
	primary, err := v.loadFrontmatter(v.cfg.PrimaryDoc)
	if err != nil {
		return err
	}
	secondary, err := v.loadFrontmatter(v.cfg.LocalizedDoc)
	if err != nil {
		return err
	}

	version, err := v.ValidateFrontmatterPair(primary, secondary)
	if err != nil {
		return err
	}
	return v.ValidateStepFiles(ctx, version)
}

func (v *Validator) loadFrontmatter(doc string) (types.Frontmatter, error) {
	fm, err := frontmatter.Load(filepath.Join(v.cfg.Root, doc))
	if err == nil {
		return fm, nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, newError(KindMissingFile, doc, err, "%s missing", doc)
	case isReadError(err):
		return nil, newError(KindIO, doc, err, "reading %s: %v", doc, err)
	}
	return nil, newError(KindParse, doc, err, "%s: %v", doc, err)
}

// ValidateFrontmatterPair checks that both documents declare name and
// schema_version and that the values agree. It returns the canonical schema
// version, taken from the primary document.
func (v *Validator) ValidateFrontmatterPair(primary, secondary types.Frontmatter) (string, error) {
	if !hasKeys(primary, nameKey, schemaVersionKey) {
		return "", newError(KindMissingField, v.cfg.PrimaryDoc, nil,
			"%s missing name or schema_version in frontmatter.", v.cfg.PrimaryDoc)
	}
	if !hasKeys(secondary, nameKey, schemaVersionKey) {
		return "", newError(KindMissingField, v.cfg.LocalizedDoc, nil,
			"%s missing name or schema_version in frontmatter.", v.cfg.LocalizedDoc)
	}
	if !sameValue(primary[nameKey], secondary[nameKey]) {
		return "", newError(KindMismatch, v.cfg.LocalizedDoc, nil,
			"name mismatch between %s and %s", v.cfg.PrimaryDoc, v.cfg.LocalizedDoc)
	}
	if !sameValue(primary[schemaVersionKey], secondary[schemaVersionKey]) {
		return "", newError(KindMismatch, v.cfg.LocalizedDoc, nil,
			"schema_version mismatch between %s and %s", v.cfg.PrimaryDoc, v.cfg.LocalizedDoc)
	}
	return Canonical(primary[schemaVersionKey]), nil
}

// StepFile returns the repository-relative path of the step file for index,
// using forward slashes.
func (v *Validator) StepFile(index int) string {
	return filepath.ToSlash(filepath.Join(v.cfg.StepsDir, fmt.Sprintf(v.cfg.StepPattern, index)))
}

// Files returns every file a run reads, joined with the root, in the order
// they are checked.
func (v *Validator) Files() []string {
	files := []string{
		filepath.Join(v.cfg.Root, v.cfg.PrimaryDoc),
		filepath.Join(v.cfg.Root, v.cfg.LocalizedDoc),
	}
	for i := 0; i < v.cfg.StepCount; i++ {
		files = append(files, filepath.Join(v.cfg.Root, filepath.FromSlash(v.StepFile(i))))
	}
	return files
}

// ValidateStepFiles checks step files 0 through StepCount-1 in order against
// version. The context is checked between files.
func (v *Validator) ValidateStepFiles(ctx context.Context, version string) error {
	info, err := os.Stat(filepath.Join(v.cfg.Root, v.cfg.StepsDir))
	if err != nil || !info.IsDir() {
		return newError(KindMissingFile, v.cfg.StepsDir, err, "%s directory missing", v.cfg.StepsDir)
	}

	for i := 0; i < v.cfg.StepCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := v.StepFile(i)
		record, err := v.loadStep(rel)
		if err != nil {
			return err
		}
		if err := ValidateStep(rel, i, version, record); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) loadStep(rel string) (types.StepRecord, error) {
	data, err := os.ReadFile(filepath.Join(v.cfg.Root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindMissingFile, rel, err, "%s missing", rel)
		}
		return nil, newError(KindIO, rel, err, "reading %s: %v", rel, err)
	}
	record, err := ParseStep(data)
	if err != nil {
		return nil, newError(KindParse, rel, err, "parsing %s: %v", rel, err)
	}
	return record, nil
}

// ParseStep decodes a single YAML document into a StepRecord. Empty input,
// more than one document, or a top level that is not a mapping are errors.
func ParseStep(data []byte) (types.StepRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var record types.StepRecord
	if err := dec.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document is empty")
		}
		return nil, err
	}
	if record == nil {
		return nil, errors.New("document is empty")
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("expected a single document")
	}
	return record, nil
}

// ValidateStep checks one decoded step record: its step field must equal
// index, its schema_version must equal version, and it must pass
// CheckYAMLSafeMarkdown. rel names the file in error messages.
func ValidateStep(rel string, index int, version string, record types.StepRecord) error {
	want := strconv.Itoa(index)
	if got := fieldString(record, stepKey); got != want {
		return newError(KindMismatch, rel, nil,
			"%s missing or mismatched step: expected %s, got %s", rel, want, got)
	}
	if got := fieldString(record, schemaVersionKey); got != version {
		return newError(KindMismatch, rel, nil,
			"%s schema_version mismatch. Expected %s, got %s", rel, version, got)
	}
	if path, found := FindFence(record); found {
		return newError(KindContentSafety, rel, nil,
			"%s contains fenced code blocks (```) inside YAML string at %s. This violates the YAML-safe profile.", rel, path)
	}
	return nil
}

func fieldString(record types.StepRecord, key string) string {
	v, ok := record[key]
	if !ok {
		return "<missing>"
	}
	return Canonical(v)
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// isReadError reports whether err came from reading the file rather than
// parsing it.
func isReadError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
