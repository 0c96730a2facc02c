package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const note = `---
title: Weekly review
tags: [work, planning]
---

# Review

- [x] inbox zero
`

func TestRenderStripsFrontmatter(t *testing.T) {
	html, err := NewParser().Render([]byte(note))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, `<h1 id="review">Review</h1>`)
	assert.Contains(t, out, `checkbox`)
	assert.NotContains(t, out, "planning")
}

func TestRenderDropsRawHTML(t *testing.T) {
	html, err := NewParser().Render([]byte("hi <script>alert(1)</script>"))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestTags(t *testing.T) {
	p := NewParser()
	assert.Equal(t, []string{"work", "planning"}, p.Tags([]byte(note)))
	assert.Equal(t, []string{"a", "b"}, p.Tags([]byte("---\ntags: a, b\n---\nbody")))
	assert.Nil(t, p.Tags([]byte("no frontmatter")))
}
