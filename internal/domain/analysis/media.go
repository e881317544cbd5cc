package analysis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MediaKind classifies an attachment.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is an encoded attachment owned by one input variant.
type MediaItem struct {
	ID   string    `json:"id"`
	Kind MediaKind `json:"type"`
	Data string    `json:"data"` // data URI: data:<mime>;base64,<payload>
}

// KindForMIME tags anything starting with "video" as video and the rest as image.
func KindForMIME(mimeType string) MediaKind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "video") {
		return MediaVideo
	}
	return MediaImage
}

var ErrInvalidDataURI = errors.New("invalid data uri")

// EncodeDataURI builds a self-describing base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SplitDataURI returns the MIME type and the base64 payload of a data URI.
// A string without the "data:" prefix is treated as a bare base64 payload with
// an empty MIME type.
func SplitDataURI(s string) (mimeType, payload string) {
	if !strings.HasPrefix(s, "data:") {
		return "", s
	}
	head, body, found := strings.Cut(s, ",")
	if !found {
		return "", ""
	}
	head = strings.TrimPrefix(head, "data:")
	head = strings.TrimSuffix(head, ";base64")
	return head, body
}

// DecodeDataURI decodes a data URI (or bare base64 payload) into raw bytes.
func DecodeDataURI(s string) (mimeType string, data []byte, err error) {
	mimeType, payload := SplitDataURI(strings.TrimSpace(s))
	if payload == "" {
		return "", nil, ErrInvalidDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}
