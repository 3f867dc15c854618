// Package output formats tool results: truncation of long text and data
// URIs for binary artifacts.
package output

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultLimit is the number of bytes kept by truncation when no limit is configured
const DefaultLimit = 10000

// Truncation markers
const (
	HeadMarker = "\n...[output truncated, showing the beginning only]"
	TailMarker = "[output truncated, showing the end only]...\n"
)

// TruncateHead keeps the first limit bytes of s and appends HeadMarker.
// Strings within the limit are returned unchanged.
func TruncateHead(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit] + HeadMarker
}

// TruncateTail keeps the last limit bytes of s behind a leading TailMarker.
func TruncateTail(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(s) <= limit {
		return s
	}
	return TailMarker + s[len(s)-limit:]
}

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".txt":  "text/plain",
	".xml":  "application/xml",
	".json": "application/json",
	".html": "text/html",
	".apk":  "application/vnd.android.package-archive",
}

// DefaultMimeType is used for extensions missing from the table
const DefaultMimeType = "application/octet-stream"

// MimeType returns the MIME type for path based on its extension
func MimeType(path string) string {
	if m, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return DefaultMimeType
}

// DataURI encodes data as data:<mime>;base64,<payload>
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload separator")
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return mime, data, nil
}
