// internal/models/message.go
package models

type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	AttachmentID string `json:"attachmentId"`
}

// Message is one mailbox entry. From is an address string, optionally in the
// "Name <email>" form.
type Message struct {
	From        string       `json:"from"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	ReceivedAt  string       `json:"receivedAt"`
	Attachments []Attachment `json:"attachments"`
	MessageID   string       `json:"messageId"`
	ThreadID    string       `json:"threadId"`
}
