package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRender_Sanitizes(t *testing.T) {
	md := NewMarkdownService()

	out, err := md.Render("**Admissions open**\n\n<script>alert(1)</script>\n\n[form](https://example.com/form)")
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>Admissions open</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `href="https://example.com/form"`)
	assert.Contains(t, out, "nofollow")
}

func TestMarkdownExcerpt(t *testing.T) {
	md := NewMarkdownService()

	assert.Equal(t, "Exam Schedule Papers start on Monday.",
		md.Excerpt("# Exam Schedule\n\nPapers start on **Monday**.", 0))
	assert.Equal(t, "Papers…", md.Excerpt("Papers start on Monday.", 6))
}
