// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/repo-validator/internal/history"
	"github.com/pdiddy/repo-validator/internal/validate"
	"github.com/pdiddy/repo-validator/internal/watch"
	"github.com/pdiddy/repo-validator/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate SKILL frontmatter and step output files",
	Long: `Validate runs every repository check in order and reports the first
violation. With --watch it keeps running and re-validates whenever one of the
checked files changes. With --history each run is appended to a SQLite log
that the history command can list.`,
	RunE: runValidate,
}

// validateFlagKeys maps validate flags to their viper config keys.
var validateFlagKeys = map[string]string{
	"primary-doc":    "primary_doc",
	"localized-doc":  "localized_doc",
	"steps-dir":      "steps_dir",
	"step-pattern":   "step_pattern",
	"step-count":     "step_count",
	"history":        "history.enabled",
	"history-path":   "history.path",
	"watch-debounce": "watch.debounce",
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().String("primary-doc", types.DefaultPrimaryDoc, "primary skill document, relative to root")
	cmd.Flags().String("localized-doc", types.DefaultLocalizedDoc, "localized skill document, relative to root")
	cmd.Flags().String("steps-dir", types.DefaultStepsDir, "directory holding the step files, relative to root")
	cmd.Flags().String("step-pattern", types.DefaultStepPattern, "step file name pattern (fmt verb for the index)")
	cmd.Flags().Int("step-count", types.DefaultStepCount, "number of step files, indexed from 0")
	cmd.Flags().Bool("history", false, "record the run in the history database")
	cmd.Flags().String("history-path", types.DefaultHistoryPath, "history database, relative to root unless absolute")
	cmd.Flags().Bool("watch", false, "re-validate whenever a checked file changes")
	cmd.Flags().Duration("watch-debounce", 300*time.Millisecond, "delay before re-validating after a change")
}

// bindFlags binds the executing command's flags to viper. Binding happens at
// run time because root and validate define the same flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}
	return nil
}

func validatorConfig() types.ValidatorConfig {
	return types.ValidatorConfig{
		Root:         viper.GetString("root"),
		PrimaryDoc:   viper.GetString("primary_doc"),
		LocalizedDoc: viper.GetString("localized_doc"),
		StepsDir:     viper.GetString("steps_dir"),
		StepPattern:  viper.GetString("step_pattern"),
		StepCount:    viper.GetInt("step_count"),
	}.WithDefaults()
}

func historyConfig(root string) types.HistoryConfig {
	path := viper.GetString("history.path")
	if path == "" {
		path = types.DefaultHistoryPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return types.HistoryConfig{
		Enabled: viper.GetBool("history.enabled"),
		Path:    path,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, validateFlagKeys); err != nil {
		return err
	}
	cfg := validatorConfig()
	hcfg := historyConfig(cfg.Root)

	r := &runner{validator: validate.New(cfg), out: os.Stdout, log: os.Stderr}
	if hcfg.Enabled {
		store, err := history.Open(hcfg.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		r.store = store
	}

	watchMode, _ := cmd.Flags().GetBool("watch")
	if !watchMode {
		if err := r.once(context.Background()); err != nil {
			return errValidationFailed
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wcfg := types.WatchConfig{Debounce: viper.GetDuration("watch.debounce")}
	w := watch.New(wcfg, r.validator.Files(), r.log)
	fmt.Fprintln(r.log, "Watching for changes; press Ctrl-C to stop.")
	return w.Run(ctx, func(ctx context.Context) {
		_ = r.once(ctx)
	})
}

// runner performs one validation run, prints its result line, and records
// it when a history store is configured.
type runner struct {
	validator *validate.Validator
	store     *history.Store
	out       io.Writer
	log       io.Writer
}

func (r *runner) once(ctx context.Context) error {
	start := time.Now()
	err := r.validator.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := validate.Message(err)
	fmt.Fprintln(r.out, msg)

	if r.store != nil {
		run := types.Run{
			StartedAt: start,
			Duration:  time.Since(start),
			Root:      r.validator.Config().Root,
			Status:    types.RunPass,
			Message:   msg,
		}
		if err != nil {
			run.Status = types.RunFail
			run.Kind = string(validate.KindOf(err))
		}
		if _, rerr := r.store.Record(ctx, run); rerr != nil {
			fmt.Fprintf(r.log, "warning: could not record run: %v\n", rerr)
		}
	}
	return err
}

func init() {
	addValidateFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
