package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriveFileID(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
		wantOK bool
	}{
		{"file path", "https://drive.google.com/file/d/ABC123/view?usp=sharing", "ABC123", true},
		{"file path without suffix", "https://drive.google.com/file/d/ABC123", "ABC123", true},
		{"open id query", "https://drive.google.com/open?id=XYZ&foo=bar", "XYZ", true},
		{"uc id query", "https://drive.google.com/uc?export=view&id=IMG9", "IMG9", true},
		{"drive without id", "https://drive.google.com/drive/folders", "", false},
		{"empty file id", "https://drive.google.com/file/d//view", "", false},
		{"not drive", "https://example.com/file/d/ABC/view", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := DriveFileID(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNormalizeDocumentLink(t *testing.T) {
	t.Run("drive file link", func(t *testing.T) {
		links := NormalizeDocumentLink("https://drive.google.com/file/d/ABC123/view")
		assert.Equal(t, "https://drive.google.com/file/d/ABC123/preview", links.Preview)
		assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123", links.Download)
		assert.Equal(t, "https://drive.google.com/file/d/ABC123/view", links.View)
	})

	t.Run("non drive link passes through", func(t *testing.T) {
		raw := "https://example.com/doc.pdf"
		assert.Equal(t, DocumentLinks{Preview: raw, Download: raw, View: raw}, NormalizeDocumentLink(raw))
	})

	t.Run("malformed drive link passes through", func(t *testing.T) {
		raw := "https://drive.google.com/drive/my-drive"
		assert.Equal(t, DocumentLinks{Preview: raw, Download: raw, View: raw}, NormalizeDocumentLink(raw))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, DocumentLinks{}, NormalizeDocumentLink(""))
	})
}

func TestNormalizeLinks_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"https://example.com/doc.pdf",
		"https://drive.google.com/drive/my-drive",
		"https://drive.google.com/file/d/ABC123/view",
		"https://drive.google.com/open?id=XYZ&foo=bar",
	}

	for _, raw := range inputs {
		first := NormalizeDocumentLink(raw)
		assert.Equal(t, first, NormalizeDocumentLink(first.View), raw)
		assert.Equal(t, first, NormalizeDocumentLink(first.Preview), raw)

		img := NormalizeImageLink(raw)
		assert.Equal(t, img, NormalizeImageLink(img), raw)
	}
}

func TestNormalizeImageLink(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=ABC123",
		NormalizeImageLink("https://drive.google.com/file/d/ABC123/view?usp=sharing"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", NormalizeImageLink("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", NormalizeImageLink(""))
}
