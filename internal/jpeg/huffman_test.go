package jpeg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleCounts/sampleSymbols form an irregular DHT-style table covering
// a spread of code lengths from 2 to 16 bits.
var sampleCounts = [16]int{0, 2, 1, 3, 3, 1, 0, 0, 0, 3, 2, 0, 1, 0, 2, 1}
var sampleSymbols = []byte{
	0x01, 0x02, 0x03, 0x11, 0x04, 0x00, 0x05, 0x21, 0x12, 0x07,
	0xA0, 0xA1, 0xA3, 0xC3, 0x14, 0x27, 0x3A, 0x4A, 0x56,
}

func bitFeeder(bits string) func() (int, error) {
	i := 0
	return func() (int, error) {
		b := int(bits[i] - '0')
		i++
		return b, nil
	}
}

func TestHuffmanBuildAndLookup(t *testing.T) {
	tree, err := buildHuffTree(sampleCounts, sampleSymbols)
	require.NoError(t, err)

	// The single 3-bit code goes to the third symbol: canonical
	// assignment gives codes 00 and 01 at length 2, then 100 at length 3.
	sym, err := tree.decode(bitFeeder("100"))
	require.NoError(t, err)
	require.Equal(t, byte(0x03), sym)
}

func TestHuffmanCanonicalInvariants(t *testing.T) {
	// Canonical codes have lengths matching the count vector and are
	// assigned in symbol-list order within each length; build the same
	// code/length table the tree uses internally and check both
	// properties plus prefix-freedom (every leaf sits at a distinct trie
	// node, so no code is a strict prefix of another).
	h := huffSpec{counts: sampleCounts, symbols: sampleSymbols}
	table := buildEncodeTable(h)
	require.Len(t, table, len(sampleSymbols))

	k := 0
	for length := 1; length <= 16; length++ {
		prevCode := -1
		for i := 0; i < sampleCounts[length-1]; i++ {
			sym := sampleSymbols[k]
			entry, ok := table[sym]
			require.True(t, ok)
			require.Equal(t, length, entry.length, "symbol %x", sym)
			if prevCode >= 0 {
				require.Equal(t, prevCode+1, entry.code, "symbol %x", sym)
			}
			prevCode = entry.code
			k++
		}
	}

	tree, err := buildHuffTree(sampleCounts, sampleSymbols)
	require.NoError(t, err)
	for _, sym := range sampleSymbols {
		entry := table[sym]
		bits := make([]byte, entry.length)
		for b := 0; b < entry.length; b++ {
			if (entry.code>>(uint(entry.length-1-b)))&1 != 0 {
				bits[b] = '1'
			} else {
				bits[b] = '0'
			}
		}
		got, err := tree.decode(bitFeeder(string(bits)))
		require.NoError(t, err)
		require.Equal(t, sym, got)
	}
}

func TestHuffmanDCTableMatchesStandard(t *testing.T) {
	// Cross-check against the published Annex K DC luminance table, whose
	// canonical codes are well known.
	tree, err := buildHuffTree(dcLumaHuff.counts, dcLumaHuff.symbols)
	require.NoError(t, err)

	cases := []struct {
		bits string
		sym  byte
	}{
		{"00", 0},
		{"010", 1},
		{"011", 2},
		{"100", 3},
		{"101", 4},
		{"110", 5},
		{"1110", 6},
		{"11110", 7},
		{"111110", 8},
		{"1111110", 9},
		{"11111110", 10},
		{"111111110", 11},
	}
	for _, c := range cases {
		got, err := tree.decode(bitFeeder(c.bits))
		require.NoError(t, err)
		require.Equal(t, c.sym, got, "bits %s", c.bits)
	}
}
