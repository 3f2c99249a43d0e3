package s3

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ListingImageKey builds a unique object key under listings/<id>/. Images uploaded
// before the listing exists go under listings/drafts/.
func ListingImageKey(listingID, filename, contentType string) string {
	ext := ExtensionForContentType(contentType)
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("listings/%s/%s%s", sanitizePathToken(listingID), uuid.NewString(), ext)
}

// IsAllowedImageType reports whether a sniffed content type may be stored.
func IsAllowedImageType(contentType string) bool {
	return ExtensionForContentType(contentType) != ""
}

func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

func sanitizePathToken(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if result := strings.Trim(b.String(), "-"); result != "" {
		return result
	}
	return "drafts"
}
