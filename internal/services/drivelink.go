package services

import "strings"

const driveHost = "drive.google.com"

// DocumentLinks are the derived URLs for a document shared from Google Drive.
type DocumentLinks struct {
	Preview  string `json:"preview"`
	Download string `json:"download"`
	View     string `json:"view"`
}

// DriveFileID extracts the file identifier from a Google Drive link.
// It looks for the segment after /file/d/ first and falls back to the id= query value.
func DriveFileID(raw string) (string, bool) {
	if !strings.Contains(raw, driveHost) {
		return "", false
	}

	if _, rest, ok := strings.Cut(raw, "/file/d/"); ok {
		id, _, _ := strings.Cut(rest, "/")
		return id, id != ""
	}

	if _, rest, ok := strings.Cut(raw, "id="); ok {
		id, _, _ := strings.Cut(rest, "&")
		return id, id != ""
	}

	return "", false
}

// NormalizeDocumentLink rewrites a Drive share link into preview, download and view URLs.
// Links that are not Drive links, or Drive links without a file id, are returned unchanged in every field.
func NormalizeDocumentLink(raw string) DocumentLinks {
	id, ok := DriveFileID(raw)
	if !ok {
		return DocumentLinks{Preview: raw, Download: raw, View: raw}
	}

	return DocumentLinks{
		Preview:  "https://drive.google.com/file/d/" + id + "/preview",
		Download: "https://drive.google.com/uc?export=download&id=" + id,
		View:     "https://drive.google.com/file/d/" + id + "/view",
	}
}

// NormalizeImageLink rewrites a Drive share link into a URL that can be used as an img src.
func NormalizeImageLink(raw string) string {
	id, ok := DriveFileID(raw)
	if !ok {
		return raw
	}
	return "https://drive.google.com/uc?export=view&id=" + id
}
