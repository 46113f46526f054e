package emptyframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSize(t *testing.T) {
	buf := Generate(4, 3)
	require.Len(t, buf, 4*3*4)
}

func TestGenerateOpaqueRed(t *testing.T) {
	buf := Generate(2, 2)
	for i := 0; i < len(buf); i += 4 {
		assert.Equal(t, byte(255), buf[i], "red channel")
		assert.Equal(t, byte(0), buf[i+1], "green channel")
		assert.Equal(t, byte(0), buf[i+2], "blue channel")
		assert.Equal(t, byte(255), buf[i+3], "alpha channel")
	}
}

func TestGenerateZeroDimension(t *testing.T) {
	assert.Empty(t, Generate(0, 10))
	assert.Empty(t, Generate(10, 0))
}
