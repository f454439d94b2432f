// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the repo-validator CLI.
//
// repo-validator checks that a skill repository's primary and localized
// SKILL documents agree on their frontmatter metadata and that the step
// output files under examples/ follow the step schema and the YAML-safe
// Markdown profile.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/repo-validator/internal/validate"
)

// version is set at build time via ldflags.
var version = "dev"

// errValidationFailed signals that the result line has already been printed.
var errValidationFailed = errors.New("validation failed")

// rootCmd is the base command for the repo-validator CLI. Run without a
// subcommand it behaves like validate.
var rootCmd = &cobra.Command{
	Use:   "repo-validator",
	Short: "Check a skill repository for metadata and step file consistency",
	Long: `repo-validator checks a skill repository in a single pass and stops at
the first problem:

  - SKILL.md and SKILL.zh-TW.md must both declare name and schema_version
    in their frontmatter, with equal values.
  - examples/02-intermediate/steps/step0.yaml through step5.yaml must exist,
    declare step equal to their index and the canonical schema_version, and
    contain no fenced code blocks inside YAML strings.

It prints one line, "Success: ..." or "Error: ...", and exits 0 or 1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runValidate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./repo-validator.yaml or ~/.config/repo-validator/repo-validator.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "repository root to validate")
	must(viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root")))

	addValidateFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("repo-validator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "repo-validator"))
		}
	}

	viper.SetEnvPrefix("REPO_VALIDATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Println(validate.Message(err))
		}
		os.Exit(1)
	}
}
