// Package media provides validation and ingestion of uploaded media
// files: content-type checks, metadata probing and persistence of the
// resulting records.
package media

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
)

// The Go runtime's builtin mime table carries no audio or video types,
// so register the common ones rather than depend on the host's mime files.
func init() {
	for ext, typ := range map[string]string{
		".aac":  "audio/aac",
		".flac": "audio/flac",
		".m4a":  "audio/mp4",
		".mp3":  "audio/mpeg",
		".oga":  "audio/ogg",
		".ogg":  "audio/ogg",
		".opus": "audio/opus",
		".wav":  "audio/wav",
		".avi":  "video/x-msvideo",
		".m4v":  "video/mp4",
		".mkv":  "video/x-matroska",
		".mov":  "video/quicktime",
		".mp4":  "video/mp4",
		".mpeg": "video/mpeg",
		".mpg":  "video/mpeg",
		".ogv":  "video/ogg",
		".webm": "video/webm",
	} {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// Error code attached to content-type validation failures
const CodeInvalidContentType = "invalid_content_type"

// ErrInvalidContentType is returned when a file's inferred content type
// matches none of the allowed patterns, or cannot be inferred at all.
var ErrInvalidContentType = errors.New("file has invalid type")

// ValidationError carries the fixed rejection message and machine code
// for an invalid upload.
type ValidationError struct {
	Message string
	Code    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap ties every validation failure to ErrInvalidContentType
func (e *ValidationError) Unwrap() error {
	return ErrInvalidContentType
}

// ContentTypeValidator checks that a file's content type, inferred from
// its name, matches one of an allowed set of patterns. Files whose type
// cannot be inferred are rejected.
type ContentTypeValidator struct {
	allowed []*regexp.Regexp
	message string
}

// NewContentTypeValidator compiles the allowed content-type patterns.
// An empty message falls back to the default rejection message.
func NewContentTypeValidator(patterns []string, message string) (*ContentTypeValidator, error) {
	allowed := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		// Patterns match from the start of the content type
		re, err := regexp.Compile("^(?:" + p + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid content type pattern %q: %w", p, err)
		}
		allowed = append(allowed, re)
	}
	if message == "" {
		message = ErrInvalidContentType.Error()
	}
	return &ContentTypeValidator{allowed: allowed, message: message}, nil
}

// Validate returns nil if the content type inferred from name matches
// any allowed pattern, otherwise a ValidationError.
func (v *ContentTypeValidator) Validate(name string) error {
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType != "" {
		for _, re := range v.allowed {
			if re.MatchString(contentType) {
				return nil
			}
		}
	}
	return &ValidationError{Message: v.message, Code: CodeInvalidContentType}
}

func mustValidator(patterns []string, message string) *ContentTypeValidator {
	v, err := NewContentTypeValidator(patterns, message)
	if err != nil {
		panic(err)
	}
	return v
}

// Default validators for the two media variants
var (
	AudioValidator = mustValidator([]string{`audio/.*`}, "Only audio files are allowed.")
	VideoValidator = mustValidator([]string{`video/.*`}, "Only video files are allowed.")
)
