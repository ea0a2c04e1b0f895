package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestASCIIOverride(t *testing.T) {
	t.Setenv(EnvASCIISymbols, "1")
	InitSymbols()
	t.Cleanup(func() {
		t.Setenv(EnvASCIISymbols, "")
		InitSymbols()
	})

	assert.False(t, DetectUnicodeSupport())
	assert.Equal(t, "->", SymbolArrowR)
	assert.Equal(t, "(*)", SymbolActive)
}

func TestUnicodeDefault(t *testing.T) {
	t.Setenv(EnvASCIISymbols, "")
	t.Setenv("LANG", "en_US.UTF-8")
	InitSymbols()

	assert.True(t, DetectUnicodeSupport())
	assert.Equal(t, "→", SymbolArrowR)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(1, 5, 10))
	assert.Equal(t, 10, Clamp(11, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
}
