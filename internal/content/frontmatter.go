// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"voiceaikb/internal/models"
)

var fence = []byte("---")

// Parse splits a leading "---" delimited YAML block from the article body.
// Files without frontmatter return a zero Frontmatter and the whole input.
func Parse(raw []byte) (models.Frontmatter, []byte, error) {
	var meta models.Frontmatter

	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	first, rest, ok := cutLine(raw)
	if !ok || !bytes.Equal(bytes.TrimSpace(first), fence) {
		return meta, raw, nil
	}

	var block []byte
	for {
		line, next, more := cutLine(rest)
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return meta, nil, fmt.Errorf("parse frontmatter: %w", err)
			}
			return meta, next, nil
		}
		if !more {
			return meta, nil, fmt.Errorf("parse frontmatter: missing closing %q", fence)
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = next
	}
}

// cutLine splits b at the first newline, dropping a trailing carriage return.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	line, rest, ok = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, ok
}
