package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateURL validates a URL supplied by a client.
// It must be absolute, use http or https, and name a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return New(ErrCodeMissingField, "url is required")
	}

	const maxURLLength = 2048
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "URL too long (max %d characters)", maxURLLength)
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must include a host")
	}

	return nil
}

// supportedImageMIME lists the image types the vision models accept.
var supportedImageMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateImageMIME checks that mime names a supported image type.
func ValidateImageMIME(mime string) error {
	if mime == "" {
		return New(ErrCodeMissingField, "imageMimeType is required")
	}
	if !supportedImageMIME[strings.ToLower(mime)] {
		return New(ErrCodeInvalidImage, "unsupported image type: %s", mime)
	}
	return nil
}

// idRegex matches tenant, board, and block identifiers.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateID validates an identifier used in store keys and URL paths.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - No control characters or path traversal sequences
//   - Letters, digits, dot, underscore, and dash only
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "%s id too long (max 128 characters)", kind)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s id contains invalid control characters", kind)
		}
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "%s id cannot contain path traversal sequences (..)", kind)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid %s id: %q", kind, id)
	}
	return nil
}
