// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter reads the YAML metadata block at the top of a Markdown
// document. The block opens with "---" at the very start of the document and
// ends at the next "---".
package frontmatter

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/repo-validator/pkg/types"
)

const delimiter = "---"

// Extract parses the frontmatter of content. A document that does not start
// with the delimiter, or has no closing delimiter, has empty frontmatter.
// Malformed YAML, or a block that is not a mapping, is an error.
func Extract(content string) (types.Frontmatter, error) {
	if !strings.HasPrefix(content, delimiter) {
		return types.Frontmatter{}, nil
	}
	rest := content[len(delimiter):]
	end := strings.Index(rest, delimiter)
	if end < 0 {
		return types.Frontmatter{}, nil
	}

	var fm types.Frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if fm == nil {
		fm = types.Frontmatter{}
	}
	return fm, nil
}

// Load reads the document at path and extracts its frontmatter. Read errors
// are returned unchanged so callers can test them with os.IsNotExist.
func Load(path string) (types.Frontmatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data))
}
