package domain

// AttachmentMeta is returned by the upload endpoint and echoed back by the
// client inside a later attachmentMessage event. It is not persisted as its
// own entity.
type AttachmentMeta struct {
	StorageName   string `json:"filename"`
	OriginalName  string `json:"originalName"`
	MimeType      string `json:"mimetype"`
	SizeBytes     int64  `json:"size"`
	URL           string `json:"url"`
	IconGlyph     string `json:"icon"`
	FormattedSize string `json:"formattedSize"`
}
