package types

import (
	"path/filepath"
	"strings"
)

// DocType is the coarse classification of an uploaded document, derived
// from the file extension at upload time.
type DocType string

const (
	DocTypePDF   DocType = "pdf"
	DocTypeImage DocType = "image"
	DocTypeDoc   DocType = "doc"
	DocTypeFile  DocType = "file"
)

// ClassifyDocType derives the document type from a file name. Unknown
// extensions fall back to DocTypeFile.
func ClassifyDocType(fileName string) DocType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf":
		return DocTypePDF
	case "jpg", "jpeg", "png", "gif", "webp", "heic":
		return DocTypeImage
	case "doc", "docx", "odt", "rtf", "txt":
		return DocTypeDoc
	default:
		return DocTypeFile
	}
}

// IsValid checks if the document type is one of the known classifications
func (t DocType) IsValid() bool {
	switch t {
	case DocTypePDF, DocTypeImage, DocTypeDoc, DocTypeFile:
		return true
	default:
		return false
	}
}

// String returns the string representation of the document type
func (t DocType) String() string {
	return string(t)
}
