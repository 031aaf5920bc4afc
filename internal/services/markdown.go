package services

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownService renders notice bodies.
type MarkdownService struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewMarkdownService creates a new markdown service with secure defaults.
func NewMarkdownService() *MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Notices are typed like plain text
			html.WithXHTML(),
			html.WithUnsafe(), // Sanitized separately with bluemonday
		),
	)

	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("mark", "sub", "sup")
	sanitizer.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	sanitizer.AllowAttrs("src").Matching(regexp.MustCompile(`^https?://`)).OnElements("img")
	sanitizer.RequireNoFollowOnLinks(true)
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)

	return &MarkdownService{
		md:        md,
		sanitizer: sanitizer,
	}
}

// Render converts markdown to sanitized HTML.
func (s *MarkdownService) Render(markdown string) (string, error) {
	var buf bytes.Buffer

	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}

	return string(s.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Excerpt returns the plain text of markdown cut to at most limit runes.
func (s *MarkdownService) Excerpt(markdown string, limit int) string {
	source := []byte(markdown)
	doc := s.md.Parser().Parse(text.NewReader(source))

	var parts []string
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		if t := strings.TrimSpace(extractTextFromNode(block, source)); t != "" {
			parts = append(parts, t)
		}
	}

	plain := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	return strings.TrimSpace(string([]rune(plain)[:limit])) + "…"
}

// extractTextFromNode extracts plain text from an AST node.
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		default:
			if child.HasChildren() {
				buf.WriteString(extractTextFromNode(child, source))
			}
		}
	}

	return buf.String()
}
