// Package filemeta derives display metadata (icon glyph, human-readable
// size) from a file's MIME type and byte count. Clients compute the same
// values, so both mappings must stay stable.
package filemeta

import (
	"math"
	"strconv"
	"strings"
)

var sizeLabels = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count as e.g. "2 MB" or "1.5 KB". The value is
// rounded to two decimals with trailing zeros dropped, and the unit is
// clamped at GB.
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i >= len(sizeLabels) {
		i = len(sizeLabels) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeLabels[i]
}

// IconFor maps a MIME type to its chat icon. Checks are ordered: the OOXML
// types all contain "officedocument", so the word/document branch must come
// before the sheet and presentation ones to reproduce the established
// mapping.
func IconFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "🖼️"
	case mimeType == "application/pdf":
		return "📄"
	case strings.Contains(mimeType, "word") || strings.Contains(mimeType, "document"):
		return "📝"
	case strings.Contains(mimeType, "excel") || strings.Contains(mimeType, "sheet"):
		return "📊"
	case strings.Contains(mimeType, "powerpoint") || strings.Contains(mimeType, "presentation"):
		return "📋"
	case mimeType == "text/plain":
		return "📄"
	case strings.Contains(mimeType, "zip") || strings.Contains(mimeType, "rar"):
		return "🗜️"
	default:
		return "📎"
	}
}
