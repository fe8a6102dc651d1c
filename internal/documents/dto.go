package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
// Content is omitted from listings.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	FileName   string    `json:"fileName"`
	MediaType  string    `json:"mediaType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Content    string    `json:"content,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document, withContent bool) DocumentResponse {
	resp := DocumentResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		FileName:   doc.FileName,
		MediaType:  string(doc.MediaType),
		SizeBytes:  doc.SizeBytes,
		UploadedAt: doc.CreatedAt,
	}
	if withContent {
		resp.Content = doc.Content
	}
	return resp
}
