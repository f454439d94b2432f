// Package main contains Mage build targets for repo-validator developer tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"

	"github.com/pdiddy/repo-validator/internal/validate"
	"github.com/pdiddy/repo-validator/pkg/types"
)

const (
	binDir  = "bin"
	binName = "repo-validator"
	cmdPkg  = "./cmd/repo-validator"
)

// Build compiles the CLI binary into bin/, stamping the version from
// VERSION (default "dev").
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Validate checks the skill repository in the current directory.
func Validate() error {
	err := validate.New(types.DefaultValidatorConfig(".")).Run(context.Background())
	fmt.Println(validate.Message(err))
	return err
}

// Init scaffolds SKILL documents and step files that pass validation.
// Existing files are left untouched.
func Init() error {
	return scaffold(".", "my-skill", "1.0")
}
