// Package pathcodec converts object keys to the opaque identifiers used in
// viewer URLs and back, so the storage layout never appears in a page link.
package pathcodec

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

var encoding = base64.RawURLEncoding

// Encode returns the URL-safe, unpadded base64 form of objectKey.
func Encode(objectKey string) string {
	return encoding.EncodeToString([]byte(objectKey))
}

// Decode reverses Encode. It reports false for empty input, malformed
// base64, or bytes that are not a non-empty UTF-8 string.
func Decode(id string) (string, bool) {
	id = strings.TrimRight(id, "=")
	if id == "" {
		return "", false
	}

	raw, err := encoding.DecodeString(id)
	if err != nil {
		return "", false
	}
	if len(raw) == 0 || !utf8.Valid(raw) {
		return "", false
	}

	return string(raw), true
}
