package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/dkovac/chatter/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartUpload builds a multipart body with an explicit part content type,
// the way browsers submit file inputs.
func multipartUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func newUploadHandler(t *testing.T) *UploadHandler {
	t.Helper()
	attachments, err := service.NewAttachmentService(t.TempDir())
	require.NoError(t, err)
	return NewUploadHandler(attachments)
}

func TestUploadAttachment(t *testing.T) {
	h := newUploadHandler(t)

	body, contentType := multipartUpload(t, "attachment", "notes.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload-attachment", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadAttachment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		File    struct {
			Filename      string `json:"filename"`
			OriginalName  string `json:"originalName"`
			URL           string `json:"url"`
			Icon          string `json:"icon"`
			FormattedSize string `json:"formattedSize"`
		} `json:"file"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "notes.pdf", resp.File.OriginalName)
	assert.True(t, strings.HasSuffix(resp.File.Filename, ".pdf"))
	assert.Equal(t, "/attachments/"+resp.File.Filename, resp.File.URL)
	assert.Equal(t, "📄", resp.File.Icon)
	assert.Equal(t, "8 Bytes", resp.File.FormattedSize)
}

func TestUploadAttachmentMissingFile(t *testing.T) {
	h := newUploadHandler(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-attachment", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.UploadAttachment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_FILE")
}

func TestUploadAttachmentDisallowedType(t *testing.T) {
	h := newUploadHandler(t)

	body, contentType := multipartUpload(t, "attachment", "tool.exe", "application/x-msdownload", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload-attachment", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadAttachment(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "DISALLOWED_TYPE")
}
