package constants

import "strings"

// ContentTypes holds the declared source types recorded in document metadata.
var ContentTypes = []string{"PDF", "IMAGE", "TXT"}

// AllowedExtensions holds the upload extensions the pipeline accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ContentTypeForExt maps a file extension to a declared content type.
func ContentTypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "PDF"
	case "jpg", "jpeg", "png":
		return "IMAGE"
	default:
		return "TXT"
	}
}

// MIMEForExt maps a file extension to the MIME type declared on the
// inference fallback path.
func MIMEForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "text/plain"
	}
}
