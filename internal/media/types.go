package media

import "strings"

// MaxImageSize is the default ceiling for an uploaded file.
const MaxImageSize = 5 << 20

// AllowedImageTypes is the fixed allow-list of accepted image mimetypes.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/tiff",
	"image/bmp",
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/tiff":    ".tiff",
	"image/bmp":     ".bmp",
}

// IsAllowedImageType matches mimetype exactly against the allow-list.
func IsAllowedImageType(mimetype string) bool {
	_, ok := extensions[mimetype]
	return ok
}

func extensionFor(mimetype string) string {
	return extensions[mimetype]
}

func allowedTypesList() string {
	return strings.Join(AllowedImageTypes, ", ")
}
