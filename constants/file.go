package constants

import "strings"

// Document formats the OCR page source understands.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// ScanExtensions holds the default extensions considered for identity scans.
var ScanExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"heic": {},
	"heif": {},
}

var extToFormat = map[string]string{
	"pdf":  PDF,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
	"tif":  IMAGE,
	"tiff": IMAGE,
	"bmp":  IMAGE,
	"heic": IMAGE,
	"heif": IMAGE,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the source format for a normalized extension, or "" if unknown.
func MapExtToFormat(ext string) string {
	return extToFormat[NormalizeExt(ext)]
}

// IsHEICExt reports whether ext needs conversion before OCR.
func IsHEICExt(ext string) bool {
	ext = NormalizeExt(ext)
	return ext == "heic" || ext == "heif"
}
