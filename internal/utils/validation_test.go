package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Corner Store", SanitizeString("  Corner Store  "))
	assert.Equal(t, "alert(1)", SanitizeString("<script>alert(1)</script>"))
	assert.Equal(t, "clean", SanitizeString("cl\x00ean"))
}

func TestValidatePassword(t *testing.T) {
	t.Run("StrongPasswordPasses", func(t *testing.T) {
		assert.Empty(t, ValidatePassword("Str0ngPass1"))
	})

	t.Run("WeakPasswordsListViolations", func(t *testing.T) {
		assert.NotEmpty(t, ValidatePassword("short"))
		assert.NotEmpty(t, ValidatePassword("alllowercase1"))
		assert.NotEmpty(t, ValidatePassword("ALLUPPERCASE1"))
		assert.NotEmpty(t, ValidatePassword("NoNumbersHere"))
	})
}
