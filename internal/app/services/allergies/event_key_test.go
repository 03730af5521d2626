package allergies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalEventKey(t *testing.T) {
	t.Run("Both Delimiters Yield The Same Canonical Form", func(t *testing.T) {
		tilde, ok := CanonicalEventKey("ai-1~2")
		assert.True(t, ok)

		hash, ok := CanonicalEventKey("ai-1#2")
		assert.True(t, ok)

		assert.Equal(t, "ai-1#2", tilde)
		assert.Equal(t, tilde, hash)
	})

	t.Run("Missing Sequence Defaults To One", func(t *testing.T) {
		key, ok := CanonicalEventKey("ai-1")
		assert.True(t, ok)
		assert.Equal(t, "ai-1#1", key)
	})

	t.Run("Invalid Sequence Defaults To One", func(t *testing.T) {
		key, ok := CanonicalEventKey("ai-1#abc")
		assert.True(t, ok)
		assert.Equal(t, "ai-1#1", key)

		key, ok = CanonicalEventKey("ai-1#0")
		assert.True(t, ok)
		assert.Equal(t, "ai-1#1", key)

		key, ok = CanonicalEventKey("ai-1#-3")
		assert.True(t, ok)
		assert.Equal(t, "ai-1#1", key)
	})

	t.Run("Empty Allergy ID Is Invalid", func(t *testing.T) {
		_, ok := CanonicalEventKey("")
		assert.False(t, ok)

		_, ok = CanonicalEventKey("#2")
		assert.False(t, ok)

		_, ok = CanonicalEventKey("~5")
		assert.False(t, ok)
	})
}

func TestSplitEventKey(t *testing.T) {
	t.Run("Resource ID And Sequence", func(t *testing.T) {
		id, seq, ok := SplitEventKey("allergy-42~7")
		assert.True(t, ok)
		assert.Equal(t, "allergy-42", id)
		assert.Equal(t, 7, seq)
	})

	t.Run("Only First Delimiter Splits", func(t *testing.T) {
		id, seq, ok := SplitEventKey("ai-1#2#3")
		assert.True(t, ok)
		assert.Equal(t, "ai-1", id)
		assert.Equal(t, 1, seq, "trailing garbage after the first split is not a valid sequence")
	})
}
