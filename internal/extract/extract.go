package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF   = "application/pdf"
	mimePlain = "text/plain"
)

// ErrExtractionFailed is returned when no usable text can be produced
// from an upload. Callers must not persist a document on this error.
var ErrExtractionFailed = errors.New("extraction failed")

// FromBytes extracts plain text from an in-memory upload. Supported mime
// types are application/pdf and text/plain; anything else fails. The
// result is guaranteed non-empty after trimming.
func FromBytes(data []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)
	switch normalizeMimeType(mimeType) {
	case mimePDF:
		text, err = extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: pdf parse: %v", ErrExtractionFailed, err)
		}
	case mimePlain:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: unsupported mime type: %s", ErrExtractionFailed, mimeType)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content", ErrExtractionFailed)
	}
	return text, nil
}

// Supported reports whether the mime type is accepted for upload.
func Supported(mimeType string) bool {
	switch normalizeMimeType(mimeType) {
	case mimePDF, mimePlain:
		return true
	default:
		return false
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
