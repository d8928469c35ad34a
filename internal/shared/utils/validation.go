package utils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Upload limits (in bytes)
const (
	MaxSnapshotSize = 8 * 1024 * 1024 // imported tree snapshot
	MaxManifestSize = 256 * 1024      // plugin manifest
)

// Field length limits, counted in runes
const (
	MaxUsernameLength    = 64
	MinUsernameLength    = 3
	MaxPasswordLength    = 72 // bcrypt ignores anything longer
	MinPasswordLength    = 8
	MaxIDLength          = 128
	MaxNameLength        = 256
	MaxTitleLength       = 256
	MaxDescriptionLength = 2048
	MaxURLLength         = 2048
)

var (
	safeIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// FieldError reports which input field was rejected and why
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// FieldOf returns the field named by a validation error, or ""
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// SizeValidator enforces an upload size limit
type SizeValidator struct {
	maxSize int
}

// NewSizeValidator creates a validator for payloads up to maxSize bytes
func NewSizeValidator(maxSize int) *SizeValidator {
	return &SizeValidator{maxSize: maxSize}
}

// Limit returns the configured maximum
func (v *SizeValidator) Limit() int {
	return v.maxSize
}

// ValidateSize rejects data larger than the limit
func (v *SizeValidator) ValidateSize(data []byte) error {
	if size := len(data); size > v.maxSize {
		return fmt.Errorf("payload size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateString checks length bounds and rejects NUL bytes. An empty
// optional value always passes.
func ValidateString(value, field string, minLen, maxLen int, required bool) error {
	if value == "" {
		if required {
			return fieldErr(field, "is required")
		}
		return nil
	}
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		return fieldErr(field, "contains invalid characters")
	}

	switch n := utf8.RuneCountInString(value); {
	case n < minLen:
		return fieldErr(field, "must be at least %d characters", minLen)
	case n > maxLen:
		return fieldErr(field, "must not exceed %d characters", maxLen)
	}
	return nil
}

// ValidateID checks an app or plugin id: letters, digits, '-' and '_'
func ValidateID(id, field string, required bool) error {
	if err := ValidateString(id, field, 1, MaxIDLength, required); err != nil {
		return err
	}
	if id != "" && !safeIDPattern.MatchString(id) {
		return fieldErr(field, "may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// ValidateUsername checks a profile username
func ValidateUsername(username string) error {
	if err := ValidateString(username, "username", MinUsernameLength, MaxUsernameLength, true); err != nil {
		return err
	}
	if !usernamePattern.MatchString(username) {
		return fieldErr("username", "may only contain letters, digits and '_'")
	}
	return nil
}

// ValidatePassword checks a non-empty profile password
func ValidatePassword(password string) error {
	return ValidateString(password, "password", MinPasswordLength, MaxPasswordLength, true)
}

// ValidateName checks a required display name
func ValidateName(name, field string) error {
	return ValidateString(name, field, 1, MaxNameLength, true)
}

// ValidateTitle checks a window title. Empty titles are allowed; titles
// render on one line, so control characters are not.
func ValidateTitle(title string) error {
	if err := ValidateString(title, "title", 0, MaxTitleLength, false); err != nil {
		return err
	}
	if strings.IndexFunc(title, unicode.IsControl) >= 0 {
		return fieldErr("title", "must not contain control characters")
	}
	return nil
}

// ValidateHTTPURL checks an absolute http or https URL, the only kind a
// plugin window may load
func ValidateHTTPURL(raw, field string) error {
	if err := ValidateString(raw, field, 1, MaxURLLength, true); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fieldErr(field, "is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fieldErr(field, "must use http or https")
	}
	if u.Host == "" {
		return fieldErr(field, "must include a host")
	}
	return nil
}

// ValidateHexColor checks a #rrggbb color
func ValidateHexColor(color, field string) error {
	if !hexColorPattern.MatchString(color) {
		return fieldErr(field, "must be a #rrggbb color")
	}
	return nil
}
