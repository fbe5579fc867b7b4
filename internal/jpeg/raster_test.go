package jpeg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRasterAssemblerTrimsPadding(t *testing.T) {
	// W/H not a multiple of 8: padded to 16x16, trimmed back to 10x10.
	asm := newRasterAssembler(16, 16, 10, 10)
	var blocks [3][8][8]int
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			blocks[0][x][y] = 128
			blocks[1][x][y] = 128
			blocks[2][x][y] = 128
		}
	}
	asm.placeMCU(0, 0, &blocks)
	asm.placeMCU(8, 0, &blocks)
	asm.placeMCU(0, 8, &blocks)
	asm.placeMCU(8, 8, &blocks)

	out := asm.trim()
	require.Len(t, out, 10*10*3)
	for i, v := range out {
		require.Equal(t, byte(128), v, "byte %d", i)
	}
}

func TestRasterAssemblerNoTrimWhenAligned(t *testing.T) {
	asm := newRasterAssembler(8, 8, 8, 8)
	var blocks [3][8][8]int
	asm.placeMCU(0, 0, &blocks)
	out := asm.trim()
	require.Len(t, out, 8*8*3)
}
