package constants

import "strings"

// Source formats recorded for each extraction.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	DOCX  = "DOCX"
	TXT   = "TXT"
)

// FileTypes holds the formats a resume can be read from.
var FileTypes = []string{PDF, IMAGE, DOCX, TXT}

// AllowedExtensions holds the default allowed file extensions for resume ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"heic": {},
	"heif": {},
	"docx": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the source format for an extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "tif", "tiff", "bmp", "heic", "heif":
		return IMAGE
	case "docx":
		return DOCX
	case "txt":
		return TXT
	default:
		return ""
	}
}

// IsHEICExt reports whether ext names a HEIC/HEIF image that tesseract cannot read directly.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}
