package jpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSegment appends a marker-prefixed, length-prefixed segment whose
// body is exactly body (the 2-byte length field covers itself + body).
func writeSegment(buf *bytes.Buffer, marker byte, body []byte) {
	buf.Write([]byte{0xFF, marker})
	writeU16(buf, 2+len(body))
	buf.Write(body)
}

// buildZeroBlockJFIF builds a minimal single-MCU JFIF stream: one DQT
// table, one DC/AC Huffman table pair each holding only the
// zero-category symbol 0x00, an 8x8 SOF0 frame, and a scan whose three
// components each decode to DC-diff 0 immediately followed by EOB — so
// every block's coefficients are all zero and the reconstructed pixel is
// constant 128 after level shift.
func buildZeroBlockJFIF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, markerSOI})

	dqtBody := make([]byte, 1+64)
	dqtBody[0] = 0x00 // precision 0, table id 0
	for i := 1; i < len(dqtBody); i++ {
		dqtBody[i] = 1
	}
	writeSegment(&buf, markerDQT, dqtBody)

	var sofBody bytes.Buffer
	sofBody.WriteByte(8)
	writeU16(&sofBody, 8) // height
	writeU16(&sofBody, 8) // width
	sofBody.WriteByte(3)
	for _, id := range []byte{1, 2, 3} {
		sofBody.WriteByte(id)
		sofBody.WriteByte(0x11)
		sofBody.WriteByte(0) // quant table 0 for all components
	}
	writeSegment(&buf, markerSOF0, sofBody.Bytes())

	zeroSymbolTable := func(class byte) []byte {
		body := make([]byte, 1+16+1)
		body[0] = class << 4 // id 0
		body[1] = 1          // one code of length 1
		body[17] = 0x00      // symbol
		return body
	}
	writeSegment(&buf, markerDHT, zeroSymbolTable(0)) // DC id0
	writeSegment(&buf, markerDHT, zeroSymbolTable(1)) // AC id0

	var sosBody bytes.Buffer
	sosBody.WriteByte(3)
	for _, id := range []byte{1, 2, 3} {
		sosBody.WriteByte(id)
		sosBody.WriteByte(0x00) // DC table 0, AC table 0
	}
	sosBody.Write([]byte{0, 63, 0})
	writeSegment(&buf, markerSOS, sosBody.Bytes())

	// Entropy data: 3 components x (DC symbol '0' + AC EOB symbol '0') =
	// 6 bits, padded to a byte boundary.
	buf.WriteByte(0x00)
	buf.Write([]byte{0xFF, markerEOI})
	return buf.Bytes()
}

func TestDecodeSingleGrayBlock(t *testing.T) {
	data := buildZeroBlockJFIF(t)
	dec := NewDecoder(data, nil)
	frame, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, 8, frame.Width)
	require.Equal(t, 8, frame.Height)
	require.Len(t, frame.Pix, 8*8*3)
	for i, v := range frame.Pix {
		require.Equal(t, byte(128), v, "pixel byte %d", i)
	}
}

func TestDecodeRejectsNonUnitySampling(t *testing.T) {
	// A SOF0 declaring 2x1 sampling for Y terminates with Unsupported and
	// no raster.
	data := buildZeroBlockJFIF(t)
	// The SOF0 segment starts right after SOI (2 bytes) + DQT segment
	// (2+2+65 bytes). Locate it structurally instead of hardcoding an
	// offset.
	idx := bytes.Index(data, []byte{0xFF, markerSOF0})
	require.GreaterOrEqual(t, idx, 0)
	// First component's H/V sampling byte sits at idx+2(marker)+2(len)+1(prec)+2(h)+2(w)+1(ncomp)+1(id)
	hvOffset := idx + 2 + 2 + 1 + 2 + 2 + 1 + 1
	mutated := append([]byte(nil), data...)
	mutated[hvOffset] = 0x21 // H=2, V=1

	dec := NewDecoder(mutated, nil)
	_, err := dec.Decode()
	require.Error(t, err)
	jerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, Unsupported, jerr.Kind)
}

func TestDecodeRejectsOutOfRangeSOSTableSelector(t *testing.T) {
	// An SOS component selector nibble outside the four defined DHT slots
	// must fail cleanly (Malformed), not index out of range into dcTrees/
	// acTrees.
	data := buildZeroBlockJFIF(t)
	idx := bytes.Index(data, []byte{0xFF, markerSOS})
	require.GreaterOrEqual(t, idx, 0)
	// First component's (id, selector) pair sits right after the 2-byte
	// length field and the 1-byte component count.
	selOffset := idx + 2 + 2 + 1 + 1
	mutated := append([]byte(nil), data...)
	mutated[selOffset] = 0xF0 // DC selector nibble 15, AC selector nibble 0

	dec := NewDecoder(mutated, nil)
	_, err := dec.Decode()
	require.Error(t, err)
	jerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, Malformed, jerr.Kind)
}

func TestDecodeRasterDimensionsMatchDeclared(t *testing.T) {
	// The raster dimensions equal the declared W/H regardless of internal
	// padding (here W=H=8 is already block-aligned, so this also exercises
	// the trim-is-a-no-op path).
	data := buildZeroBlockJFIF(t)
	dec := NewDecoder(data, nil)
	frame, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, 8, frame.Width)
	require.Equal(t, 8, frame.Height)
}
