package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@company.co.kr",
		"a+tag@sub.example.org",
	}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected valid: %s", e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"user@",
		"user@nodot",
		"User Name <user@example.com>",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected invalid: %s", e)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidatePassword("password1"))
	assert.True(t, ValidatePassword("Abcdefg9"))

	assert.False(t, ValidatePassword("short1"))
	assert.False(t, ValidatePassword("onlyletters"))
	assert.False(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword(strings.Repeat("a1", 40)))
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidateName("홍길동"))
	assert.True(t, ValidateName("  김철수  "))

	assert.False(t, ValidateName(""))
	assert.False(t, ValidateName("   "))
	assert.False(t, ValidateName(strings.Repeat("가", 20)))
}
