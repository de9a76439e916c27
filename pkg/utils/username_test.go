package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	valid := []string{"alice", "bob_99", "abc", "x_y_z"}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	invalid := []string{
		"",
		"ab",               // too short
		"_alice",           // starts with underscore
		"alice!",           // punctuation
		"name with spaces", // whitespace
		"aaaaaaaaaaaaaaaaaaaaaaa", // too long
	}
	for _, u := range invalid {
		assert.Error(t, ValidateUsername(u), u)
	}
}
