package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dkovac/chatter/internal/service"
)

type UploadHandler struct {
	attachments *service.AttachmentService
}

func NewUploadHandler(attachments *service.AttachmentService) *UploadHandler {
	return &UploadHandler{attachments: attachments}
}

// UploadAttachment is phase one of the attachment protocol: the client posts
// the file here, then references the returned metadata in a later
// attachmentMessage socket event.
func (h *UploadHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("attachment")
	if err != nil {
		writeError(w, http.StatusBadRequest, "NO_FILE", "No file selected")
		return
	}
	defer file.Close()

	meta, err := h.attachments.Ingest(file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the 50 MB limit")
		case errors.Is(err, service.ErrDisallowedType):
			writeError(w, http.StatusUnsupportedMediaType, "DISALLOWED_TYPE", "File type is not allowed")
		default:
			log.Printf("ERROR upload attachment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"file":    meta,
	})
}
