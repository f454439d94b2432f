package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/repo-validator/pkg/types"
)

// scaffold writes a minimal valid skill layout under root.
func scaffold(root, name, schemaVersion string) error {
	fm, err := yaml.Marshal(types.Frontmatter{"name": name, "schema_version": schemaVersion})
	if err != nil {
		return fmt.Errorf("encoding frontmatter: %w", err)
	}
	docs := map[string]string{
		types.DefaultPrimaryDoc:   "---\n" + string(fm) + "---\n\n# " + name + "\n",
		types.DefaultLocalizedDoc: "---\n" + string(fm) + "---\n\n# " + name + "（繁體中文）\n",
	}
	for rel, content := range docs {
		if err := writeIfMissing(filepath.Join(root, rel), []byte(content)); err != nil {
			return err
		}
	}

	for i := 0; i < types.DefaultStepCount; i++ {
		data, err := yaml.Marshal(types.StepRecord{
			"step":           i,
			"schema_version": schemaVersion,
			"summary":        fmt.Sprintf("Describe the output of step %d.", i),
		})
		if err != nil {
			return fmt.Errorf("encoding step %d: %w", i, err)
		}
		path := filepath.Join(root, types.DefaultStepsDir, fmt.Sprintf(types.DefaultStepPattern, i))
		if err := writeIfMissing(path, data); err != nil {
			return err
		}
	}
	return nil
}

func writeIfMissing(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  exists ", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Println("  created", path)
	return nil
}
