package jpeg

import (
	"bytes"
	"encoding/binary"
)

// EncodeOptions controls optional encoder output. All fields are
// optional; a zero-value EncodeOptions is a valid default.
type EncodeOptions struct {
	// Comment overrides the COM segment text; the default identifies the
	// encoder.
	Comment string
}

const defaultComment = "Encoded with bjpeg - baseline JPEG codec"

// Encode runs the full encoding pipeline over a raster, producing a
// complete JFIF byte stream using the fixed Annex-K tables (tables.go):
// color transform, level shift, forward DCT, quantize, zig-zag,
// run-length, Huffman code, then segment emission.
func Encode(frame *Frame, opts EncodeOptions) ([]byte, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, newErr(InvalidRaster, "Encode", -1, nil)
	}
	if len(frame.Pix) != frame.Width*frame.Height*3 {
		return nil, newErr(InvalidRaster, "Encode", -1, nil)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, markerSOI})
	writeAPP0(&buf)
	comment := opts.Comment
	if comment == "" {
		comment = defaultComment
	}
	writeCOM(&buf, comment)
	writeDQT(&buf)
	writeSOF0(&buf, frame.Width, frame.Height)
	writeDHT(&buf)
	writeSOSHeader(&buf)

	entropy := encodeScan(frame)
	buf.Write(entropy)

	buf.Write([]byte{0xFF, markerEOI})
	return buf.Bytes(), nil
}

func writeAPP0(buf *bytes.Buffer) {
	const segLen = 2 + 5 + 2 + 1 + 2 + 2 + 2
	buf.Write([]byte{0xFF, markerAPP0})
	writeU16(buf, segLen)
	buf.WriteString("JFIF\x00")
	buf.Write([]byte{1, 1}) // version 1.1
	buf.WriteByte(0)        // density units: aspect ratio
	writeU16(buf, 1)        // Xdensity
	writeU16(buf, 1)        // Ydensity
	buf.Write([]byte{0, 0}) // no embedded thumbnail
}

func writeCOM(buf *bytes.Buffer, comment string) {
	buf.Write([]byte{0xFF, markerCOM})
	writeU16(buf, 2+len(comment))
	buf.WriteString(comment)
}

func writeDQT(buf *bytes.Buffer) {
	writeOneDQT(buf, 0, lumaQuantZZ)
	writeOneDQT(buf, 1, chromaQuantZZ)
}

func writeOneDQT(buf *bytes.Buffer, id int, table [64]int) {
	buf.Write([]byte{0xFF, markerDQT})
	writeU16(buf, 2+1+64)
	buf.WriteByte(byte(id)) // precision nibble 0, id in low nibble
	for _, v := range table {
		buf.WriteByte(byte(v))
	}
}

func writeSOF0(buf *bytes.Buffer, w, h int) {
	buf.Write([]byte{0xFF, markerSOF0})
	writeU16(buf, 2+1+2+2+1+3*3)
	buf.WriteByte(8) // precision
	writeU16(buf, h)
	writeU16(buf, w)
	buf.WriteByte(3) // component count
	// Y uses quant table 0, Cb/Cr use quant table 1.
	ids := [3]byte{1, 2, 3}
	quantSel := [3]byte{0, 1, 1}
	for i := 0; i < 3; i++ {
		buf.WriteByte(ids[i])
		buf.WriteByte(0x11) // 1x1 sampling
		buf.WriteByte(quantSel[i])
	}
}

func writeDHT(buf *bytes.Buffer) {
	writeOneDHT(buf, 0, 0, dcLumaHuff)
	writeOneDHT(buf, 1, 0, dcChromaHuff)
	writeOneDHT(buf, 0, 1, acLumaHuff)
	writeOneDHT(buf, 1, 1, acChromaHuff)
}

func writeOneDHT(buf *bytes.Buffer, id int, class int, h huffSpec) {
	buf.Write([]byte{0xFF, markerDHT})
	writeU16(buf, 2+1+16+len(h.symbols))
	buf.WriteByte(byte(class<<4) | byte(id))
	for _, c := range h.counts {
		buf.WriteByte(byte(c))
	}
	buf.Write(h.symbols)
}

func writeSOSHeader(buf *bytes.Buffer) {
	buf.Write([]byte{0xFF, markerSOS})
	writeU16(buf, 2+1+3*2+3)
	buf.WriteByte(3)
	ids := [3]byte{1, 2, 3}
	selectors := [3]byte{0x00, 0x11, 0x11} // Y: DC0/AC0, Cb/Cr: DC1/AC1
	for i := 0; i < 3; i++ {
		buf.WriteByte(ids[i])
		buf.WriteByte(selectors[i])
	}
	buf.Write([]byte{0, 63, 0}) // Ss, Se, AhAl
}

func writeU16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

// encodeScan runs the per-block pipeline over every 8x8 block in
// raster-scan order and returns the byte-stuffed, padded entropy-coded
// bit-stream.
func encodeScan(frame *Frame) []byte {
	w, h := frame.Width, frame.Height
	wBlocks := (w + 7) / 8
	hBlocks := (h + 7) / 8

	dcPred := [3]int{0, 0, 0}
	dcTables := [3]map[byte]huffCode{
		buildEncodeTable(dcLumaHuff), buildEncodeTable(dcChromaHuff), buildEncodeTable(dcChromaHuff),
	}
	acTables := [3]map[byte]huffCode{
		buildEncodeTable(acLumaHuff), buildEncodeTable(acChromaHuff), buildEncodeTable(acChromaHuff),
	}
	quant := [3]*[64]int{&lumaQuantZZ, &chromaQuantZZ, &chromaQuantZZ}

	bw := newBitWriter()
	for by := 0; by < hBlocks; by++ {
		for bx := 0; bx < wBlocks; bx++ {
			comps := extractMCU(frame, bx*8, by*8)
			for ci := 0; ci < 3; ci++ {
				z := forwardBlock(comps[ci], quant[ci])
				encodeBlock(bw, z, &dcPred[ci], dcTables[ci], acTables[ci])
			}
		}
	}
	bw.pad()
	return bw.bytes()
}

// extractMCU reads one 8x8-per-component YCbCr block starting at (x0,
// y0), replicating edge pixels past the declared W/H so partial border
// blocks stay smooth.
func extractMCU(frame *Frame, x0, y0 int) [3][8][8]float64 {
	var out [3][8][8]float64
	for dy := 0; dy < 8; dy++ {
		y := y0 + dy
		if y >= frame.Height {
			y = frame.Height - 1
		}
		for dx := 0; dx < 8; dx++ {
			x := x0 + dx
			if x >= frame.Width {
				x = frame.Width - 1
			}
			idx := (y*frame.Width + x) * 3
			r, g, b := frame.Pix[idx], frame.Pix[idx+1], frame.Pix[idx+2]
			yv, cb, cr := rgbToYCbCr(r, g, b)
			out[0][dx][dy] = yv - 128
			out[1][dx][dy] = cb - 128
			out[2][dx][dy] = cr - 128
		}
	}
	return out
}

// forwardBlock runs forward DCT + quantize + zig-zag for one component's
// 8x8 level-shifted block.
func forwardBlock(block [8][8]float64, quant *[64]int) [64]int {
	coeff := fdct8x8(block)
	zz := matToZigzag(coeff)
	for i := 0; i < 64; i++ {
		zz[i] = roundDiv(zz[i], quant[i])
	}
	return zz
}

func roundDiv(a, b int) int {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}

// encodeBlock Huffman-codes one component's zig-zag coefficient sequence:
// DC differential against *dcPred, then run-length/category AC pairs with
// ZRL/EOB.
func encodeBlock(bw *bitWriter, zz [64]int, dcPred *int, dcTable, acTable map[byte]huffCode) {
	diff := zz[0] - *dcPred
	*dcPred = zz[0]
	cat := categoryOf(diff)
	code := dcTable[byte(cat)]
	bw.writeBits(code.code, code.length)
	if cat > 0 {
		writeValueBits(bw, diff, cat)
	}

	lastNonzero := 0 // 0 means "no AC coefficient is nonzero"
	for i := 1; i < 64; i++ {
		if zz[i] != 0 {
			lastNonzero = i
		}
	}

	run := 0
	for i := 1; i <= lastNonzero; i++ {
		v := zz[i]
		if v == 0 {
			run++
			continue
		}
		for run >= 16 {
			zrl := acTable[0xF0]
			bw.writeBits(zrl.code, zrl.length)
			run -= 16
		}
		vCat := categoryOf(v)
		sym := byte(run<<4) | byte(vCat)
		code := acTable[sym]
		bw.writeBits(code.code, code.length)
		writeValueBits(bw, v, vCat)
		run = 0
	}
	if lastNonzero < 63 {
		eob := acTable[0x00]
		bw.writeBits(eob.code, eob.length)
	}
}

// writeValueBits emits the cat-bit encoding of v: direct binary when
// v >= 0, (v + 2^cat - 1) when negative.
func writeValueBits(bw *bitWriter, v, cat int) {
	if cat == 0 {
		return
	}
	var bits int
	if v >= 0 {
		bits = v
	} else {
		bits = v + (1<<cat - 1)
	}
	bw.writeBits(bits, cat)
}
