package chats

import (
	"fmt"
	"strings"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/llm"
)

const systemRole = "system"

// BuildMessages assembles the ordered context for one completion call:
// a grounding message carrying the full document content, at most
// historyWindow prior turns in original order, then the new user message.
func BuildMessages(doc documents.Document, history []Turn, userMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    systemRole,
		Content: groundingMessage(doc),
	})

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    string(RoleUser),
		Content: userMessage,
	})
	return messages
}

// groundingMessage renders the system message with document metadata and
// the entire extracted content verbatim. The content is deliberately not
// truncated or chunked; grounding cost scales with document size.
func groundingMessage(doc documents.Document) string {
	uploaded := "Recently"
	if !doc.CreatedAt.IsZero() {
		uploaded = doc.CreatedAt.Format("1/2/2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful assistant answering questions about documents. The current document is titled %q (%s).\n\n", doc.Title, doc.MediaType)
	b.WriteString("Document Details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", doc.MediaType)
	fmt.Fprintf(&b, "- Size: %d bytes\n", doc.SizeBytes)
	fmt.Fprintf(&b, "- Uploaded: %s\n\n", uploaded)
	b.WriteString("FULL DOCUMENT CONTENT:\n")
	b.WriteString(doc.Content)
	b.WriteString("\n\nPlease provide helpful, accurate responses based on the document content above. If you cannot answer based on the available information, politely say so.")
	return b.String()
}
