package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCriticality(t *testing.T) {
	t.Run("Canonical Labels From Raw Codes", func(t *testing.T) {
		assert.Equal(t, CriticalityHighRisk, NormalizeCriticality("high"))
		assert.Equal(t, CriticalityHighRisk, NormalizeCriticality("High Risk"))
		assert.Equal(t, CriticalityLowRisk, NormalizeCriticality("low"))
		assert.Equal(t, CriticalityLowRisk, NormalizeCriticality("low risk"))
		assert.Equal(t, CriticalityDelabeled, NormalizeCriticality("delabeled"))
	})

	t.Run("Unable To Assess Maps To Low Risk", func(t *testing.T) {
		assert.Equal(t, CriticalityLowRisk, NormalizeCriticality("unable-to-assess"))
	})

	t.Run("Case And Whitespace Insensitive", func(t *testing.T) {
		assert.Equal(t, CriticalityHighRisk, NormalizeCriticality("  HIGH  "))
		assert.Equal(t, CriticalityDelabeled, NormalizeCriticality("DeLabeled"))
	})

	t.Run("Substring Rules", func(t *testing.T) {
		assert.Equal(t, CriticalityHighRisk, NormalizeCriticality("very high concern"))
		assert.Equal(t, CriticalityDelabeled, NormalizeCriticality("patient delabelled 2023"))
	})

	t.Run("Unrecognized Value Passes Through", func(t *testing.T) {
		assert.Equal(t, "unknown-value", NormalizeCriticality("unknown-value"))
		assert.Equal(t, "", NormalizeCriticality(""))
	})
}

func TestCriticalityToCode(t *testing.T) {
	t.Run("Canonical Labels Map To FHIR Codes", func(t *testing.T) {
		code, ok := CriticalityToCode("High Risk")
		assert.True(t, ok)
		assert.Equal(t, "high", code)

		code, ok = CriticalityToCode("Low Risk")
		assert.True(t, ok)
		assert.Equal(t, "low", code)

		code, ok = CriticalityToCode("Delabeled")
		assert.True(t, ok)
		assert.Equal(t, "delabeled", code)
	})

	t.Run("Passthrough Values Yield No Code", func(t *testing.T) {
		code, ok := CriticalityToCode("unknown-value")
		assert.False(t, ok)
		assert.Equal(t, "", code)

		code, ok = CriticalityToCode("")
		assert.False(t, ok)
		assert.Equal(t, "", code)
	})
}
