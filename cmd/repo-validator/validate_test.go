// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/repo-validator/internal/history"
	"github.com/pdiddy/repo-validator/internal/validate"
	"github.com/pdiddy/repo-validator/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	fm := "---\nname: demo\nschema_version: 1\n---\n"
	writeFile(t, root, types.DefaultPrimaryDoc, fm)
	writeFile(t, root, types.DefaultLocalizedDoc, fm)
	for i := 0; i < types.DefaultStepCount; i++ {
		writeFile(t, root, fmt.Sprintf("%s/step%d.yaml", types.DefaultStepsDir, i),
			fmt.Sprintf("step: %d\nschema_version: 1\n", i))
	}
	return root
}

func TestRunnerOnceRecordsRuns(t *testing.T) {
	root := writeRepo(t)
	store, err := history.Open(filepath.Join(root, types.DefaultHistoryPath))
	require.NoError(t, err)
	defer store.Close()

	var out, log bytes.Buffer
	r := &runner{
		validator: validate.New(types.DefaultValidatorConfig(root)),
		store:     store,
		out:       &out,
		log:       &log,
	}

	require.NoError(t, r.once(context.Background()))
	assert.Equal(t, validate.SuccessMessage+"\n", out.String())

	writeFile(t, root, types.DefaultLocalizedDoc, "---\nname: other\nschema_version: 1\n---\n")
	out.Reset()
	err = r.once(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error: name mismatch between SKILL.md and SKILL.zh-TW.md\n", out.String())
	assert.Empty(t, log.String())

	runs, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, types.RunFail, runs[0].Status)
	assert.Equal(t, string(validate.KindMismatch), runs[0].Kind)
	assert.Equal(t, types.RunPass, runs[1].Status)
	assert.Equal(t, root, runs[1].Root)
}

func TestRunnerOnceCancelled(t *testing.T) {
	var out bytes.Buffer
	r := &runner{
		validator: validate.New(types.DefaultValidatorConfig(writeRepo(t))),
		out:       &out,
		log:       &bytes.Buffer{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.once(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String(), "a cancelled run prints nothing")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 60))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	long := "Error: SKILL.zh-TW.md: 解析前置資料失敗，第三行出現未預期的字元，請檢查縮排與引號是否正確配對"
	got := truncate(long, 40)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 40, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	formatHistoryTable(&buf, nil, history.Summary{})
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	runs := []types.Run{{
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  12 * time.Millisecond,
		Status:    types.RunFail,
		Kind:      "missing_file",
		Message:   "Error: examples/02-intermediate/steps/step5.yaml missing",
	}}
	formatHistoryTable(&buf, runs, history.Summary{Passed: 3, Failed: 1})
	assert.Contains(t, buf.String(), "missing_file")
	assert.Contains(t, buf.String(), "12ms")
	assert.Contains(t, buf.String(), "Error: examples/02-intermediate/steps/step5.yaml missing")
	assert.Contains(t, buf.String(), "1 shown, 4 recorded (3 passed, 1 failed)")
}
