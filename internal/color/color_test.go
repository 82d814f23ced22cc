package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom_Format(t *testing.T) {
	for range 100 {
		c := Random()
		assert.True(t, Valid(c), c)
		assert.Equal(t, Normalize(c), c, "Random should emit uppercase hex")
	}
}

func TestForName_Stable(t *testing.T) {
	assert.Equal(t, ForName("Breakfast"), ForName("  breakfast "))
	assert.NotEqual(t, ForName("Breakfast"), ForName("Dinner"))
	assert.True(t, Valid(ForName("Завтрак")))
}

func TestSequence(t *testing.T) {
	gen := Sequence("#000001", "#000002")
	assert.Equal(t, "#000001", gen())
	assert.Equal(t, "#000002", gen())
	assert.Equal(t, "#000001", gen())
}

func TestValidAndNormalize(t *testing.T) {
	assert.True(t, Valid("#a1b2c3"))
	assert.False(t, Valid("a1b2c3"))
	assert.False(t, Valid("#a1b2c"))
	assert.False(t, Valid("#GGGGGG"))
	assert.Equal(t, "#A1B2C3", Normalize(" #a1b2c3 "))
}

func TestHSLToRGB(t *testing.T) {
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	r, g, b = hslToRGB(0, 1, 0.5)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}
