package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentifierValue(t *testing.T) {
	t.Run("Plain Value Unchanged", func(t *testing.T) {
		assert.Equal(t, "URN-001", NormalizeIdentifierValue("URN-001"))
	})

	t.Run("Unicode Dash Variants Collapse", func(t *testing.T) {
		assert.Equal(t, "URN-001", NormalizeIdentifierValue("URN–001"), "en dash should become ASCII hyphen")
		assert.Equal(t, "URN-001", NormalizeIdentifierValue("URN—001"), "em dash should become ASCII hyphen")
		assert.Equal(t, "URN-001", NormalizeIdentifierValue("URN−001"), "minus sign should become ASCII hyphen")
		assert.Equal(t, "URN-001", NormalizeIdentifierValue("URN‐001"), "unicode hyphen should become ASCII hyphen")
	})

	t.Run("Whitespace Stripped", func(t *testing.T) {
		assert.Equal(t, "2950156481", NormalizeIdentifierValue(" 2950 156 481 "))
		assert.Equal(t, "URN-77", NormalizeIdentifierValue("URN - 77"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := NormalizeIdentifierValue("URN– 001")
		assert.Equal(t, once, NormalizeIdentifierValue(once))
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeIdentifierValue(""))
	})
}
