package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		min, max int
		required bool
		wantErr  bool
	}{
		{"required empty", "", 1, 10, true, true},
		{"optional empty", "", 1, 10, false, false},
		{"too short", "ab", 3, 10, true, true},
		{"too long", "abcdefghijk", 1, 10, true, true},
		{"null byte", "a\x00b", 1, 10, true, true},
		{"invalid utf8", "a\xffb", 1, 10, true, true},
		{"multibyte counted as runes", "ééé", 1, 3, true, false},
		{"ok", "hello", 1, 10, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateString(tt.value, "field", tt.min, tt.max, tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	err := ValidateUsername("al")
	assert.Equal(t, "username", FieldOf(err))
	assert.EqualError(t, err, "username must be at least 3 characters")

	wrapped := fmt.Errorf("invalid profile: %w", ValidateHTTPURL("ftp://x", "url"))
	assert.Equal(t, "url", FieldOf(wrapped))
	assert.Empty(t, FieldOf(errors.New("other")))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle(""))
	assert.NoError(t, ValidateTitle("Notepad - notes (1).txt"))
	assert.Error(t, ValidateTitle("two\nlines"))
	assert.Error(t, ValidateTitle(strings.Repeat("t", MaxTitleLength+1)))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("todo-app_2", "id", true))
	assert.Error(t, ValidateID("", "id", true))
	assert.NoError(t, ValidateID("", "id", false))
	assert.Error(t, ValidateID("bad id", "id", true))
	assert.Error(t, ValidateID("../etc", "id", true))
	assert.Error(t, ValidateID(strings.Repeat("a", MaxIDLength+1), "id", true))
}

func TestValidateUsernameAndPassword(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice_01"))
	assert.Error(t, ValidateUsername("al"))
	assert.Error(t, ValidateUsername("alice smith"))

	assert.NoError(t, ValidatePassword("correct horse"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)))
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/app/", false},
		{"http://localhost:5173", false},
		{"", true},
		{"javascript:alert(1)", true},
		{"file:///etc/passwd", true},
		{"https://", true},
		{"not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url, "url")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	assert.NoError(t, ValidateHexColor("#3b82f6", "accent"))
	assert.NoError(t, ValidateHexColor("#ABCDEF", "accent"))
	assert.Error(t, ValidateHexColor("3b82f6", "accent"))
	assert.Error(t, ValidateHexColor("#3b82f", "accent"))
	assert.Error(t, ValidateHexColor("#3b82fg", "accent"))
}

func TestSizeValidator(t *testing.T) {
	v := NewSizeValidator(4)
	assert.NoError(t, v.ValidateSize([]byte("1234")))
	assert.Error(t, v.ValidateSize([]byte("12345")))
	assert.Equal(t, 4, v.Limit())
}

func TestHasher(t *testing.T) {
	h := DefaultHasher()

	a := h.Hash([]byte("hello"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, h.Hash([]byte("hello")), "deterministic")
	assert.NotEqual(t, a, h.Hash([]byte("hello!")))

	assert.Len(t, NewHasher(0).Hash([]byte("x")), 64)
	assert.Equal(t, `"`+a+`"`, h.ETag([]byte("hello")))
}
