package objectkey

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix is the top-level directory every generated key lives under.
const Prefix = "uploads"

// DefaultBaseName is used when an upload carries no usable file name.
const DefaultBaseName = "image"

// FallbackExtension is used for content types outside the allow-list.
const FallbackExtension = "bin"

var extensionByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var (
	trailingExtRe  = regexp.MustCompile(`\.[^/.]+$`)
	unsafeNameChar = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates an object key for storage backends
	GenerateKey(metadata *KeyMetadata) string
}

// KeyMetadata contains information that influences key generation
type KeyMetadata struct {
	FileName    string
	ContentType string
}

// DatePartitionedGenerator produces keys of the form
// uploads/<yyyy-mm-dd>/<base>-<uuid>.<ext>.
type DatePartitionedGenerator struct {
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

func NewDatePartitionedGenerator() *DatePartitionedGenerator {
	return &DatePartitionedGenerator{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

func (g *DatePartitionedGenerator) GenerateKey(metadata *KeyMetadata) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	newID := uuid.NewString
	if g.NewID != nil {
		newID = g.NewID
	}

	var fileName, contentType string
	if metadata != nil {
		fileName = metadata.FileName
		contentType = metadata.ContentType
	}

	return fmt.Sprintf("%s/%s/%s-%s.%s",
		Prefix,
		now().UTC().Format(time.DateOnly),
		SanitizeBaseName(fileName),
		newID(),
		ExtensionFor(contentType),
	)
}

// NewRecommendedGenerator returns the generator used by the service by default
func NewRecommendedGenerator() Generator {
	return NewDatePartitionedGenerator()
}

// NormalizeContentType lower-cases a media type and drops its parameters.
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return strings.ToLower(contentType)
}

// IsAllowed reports whether contentType is one of the accepted image types.
func IsAllowed(contentType string) bool {
	_, ok := extensionByType[NormalizeContentType(contentType)]
	return ok
}

// AllowedTypes lists the accepted image types in a stable order.
func AllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

// ExtensionFor maps a content type to the extension stored in the key.
func ExtensionFor(contentType string) string {
	if ext, ok := extensionByType[NormalizeContentType(contentType)]; ok {
		return ext
	}
	return FallbackExtension
}

// SanitizeBaseName strips the extension from fileName and replaces every
// character outside [a-zA-Z0-9_-] with a dash.
func SanitizeBaseName(fileName string) string {
	base := trailingExtRe.ReplaceAllString(fileName, "")
	base = unsafeNameChar.ReplaceAllString(base, "-")
	if base == "" {
		return DefaultBaseName
	}
	return base
}

// Valid reports whether key has the shape produced by the generators in this
// package. Decoded viewer ids that fail this check are treated as unknown.
func Valid(key string) bool {
	if !strings.HasPrefix(key, Prefix+"/") {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x21 || key[i] > 0x7e {
			return false
		}
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
