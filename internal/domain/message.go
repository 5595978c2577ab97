package domain

import "time"

const (
	MessageTypeText       = "text"
	MessageTypeAttachment = "attachment"
)

// Attachment is the file reference embedded in an attachment message. It is
// a snapshot of the upload metadata at send time, not a live pointer into
// the attachment store.
type Attachment struct {
	URL           string `json:"url"`
	OriginalName  string `json:"originalName"`
	SizeBytes     int64  `json:"sizeBytes"`
	IconGlyph     string `json:"iconGlyph"`
	FormattedSize string `json:"formattedSize"`
}

// Message is a persisted chat message. Type is "attachment" exactly when
// Attachment is non-nil. ID is assigned by the store on append; a message
// broadcast before the append completes carries ID zero.
type Message struct {
	ID         int64       `json:"id,omitempty"`
	UserID     int64       `json:"userId"`
	Username   string      `json:"username"`
	Text       string      `json:"message"`
	ProfilePic string      `json:"profilePic,omitempty"`
	Type       string      `json:"messageType"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
