package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsNonEmptyString("buy milk"))
	assert.True(t, v.IsNonEmptyString("  x  "))
	assert.False(t, v.IsNonEmptyString(""))
	assert.False(t, v.IsNonEmptyString("   "))
	assert.False(t, v.IsNonEmptyString("\t\n"))
}

func TestValidator_IsWithinLength(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsWithinLength("abc", 3))
	assert.False(t, v.IsWithinLength("abcd", 3))
	// runes, not bytes
	assert.True(t, v.IsWithinLength("买牛奶", 3))
	assert.True(t, v.IsWithinLength("  abc  ", 3))
	assert.False(t, v.IsWithinLength(strings.Repeat("a", 501), 500))
}

func TestValidator_IsValidTaskID(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidTaskID(1))
	assert.False(t, v.IsValidTaskID(0))
	assert.False(t, v.IsValidTaskID(-4))
}

func TestValidator_IsValidDate(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidDate("2024-01-01"))
	assert.False(t, v.IsValidDate("2024-13-01"))
	assert.False(t, v.IsValidDate("20240101"))
	assert.False(t, v.IsValidDate(""))
}
