package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		ok       bool
	}{
		{name: "simple", username: "alice", ok: true},
		{name: "with number and underscore", username: "bob_42", ok: true},
		{name: "with dot", username: "jane.doe", ok: true},
		{name: "minimum length", username: "abc", ok: true},
		{name: "maximum length", username: strings.Repeat("a", 30), ok: true},
		{name: "empty", username: "", ok: false},
		{name: "too short", username: "ab", ok: false},
		{name: "too long", username: strings.Repeat("a", 31), ok: false},
		{name: "uppercase", username: "Alice", ok: false},
		{name: "space", username: "al ice", ok: false},
		{name: "hyphen", username: "al-ice", ok: false},
		{name: "leading dot", username: ".alice", ok: false},
		{name: "trailing dot", username: "alice.", ok: false},
		{name: "reserved me", username: "me", ok: false},
		{name: "reserved admin", username: "admin", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Alice <alice@example.com>"))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "password123", false},
		{"Exactly Min Length", "abcdefgh", false},
		{"Exactly Max Length", strings.Repeat("p", 128), false},
		{"Too Short", "short", true},
		{"Too Long", strings.Repeat("p", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
