package documents

import (
	"strings"
	"time"
)

// MediaType is the declared type of an uploaded document.
type MediaType string

const (
	MediaTypePDF       MediaType = "pdf"
	MediaTypePlainText MediaType = "plain-text"
)

// MediaTypeFromMime maps an upload mime type to a MediaType. Parameters
// such as charset are ignored.
func MediaTypeFromMime(mimeType string) (MediaType, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch mimeType {
	case "application/pdf":
		return MediaTypePDF, true
	case "text/plain":
		return MediaTypePlainText, true
	default:
		return "", false
	}
}

// Document represents an uploaded document owned by a user. Content holds
// the extracted text and is never empty for a persisted document.
type Document struct {
	ID         string
	UserID     string
	Title      string
	FileName   string
	MediaType  MediaType
	Content    string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}
