package jpeg

import "math"

// idctCos[x][u] = cos((2x+1) u pi / 16), precomputed once and shared by
// both transform directions.
var idctCos [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			idctCos[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16.0)
		}
	}
}

func cCoef(u int) float64 {
	if u == 0 {
		return 1.0 / math.Sqrt2
	}
	return 1.0
}

// idct8x8 computes the inverse 8x8 DCT as the direct double sum
// F(x,y) = 1/4 sum C(u)C(v) in[v][u] cos((2x+1)u pi/16) cos((2y+1)v pi/16).
func idct8x8(in [8][8]int) (out [8][8]float64) {
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			var sum float64
			for u := 0; u < 8; u++ {
				for v := 0; v < 8; v++ {
					sum += cCoef(u) * cCoef(v) * float64(in[v][u]) * idctCos[x][u] * idctCos[y][v]
				}
			}
			out[x][y] = 0.25 * sum
		}
	}
	return out
}

// fdct8x8 computes the forward 8x8 DCT, the mirror of idct8x8 used by the
// encoder.
// The result is indexed [v][u] (row=vertical frequency, column=horizontal
// frequency), matching the coefficient-matrix convention zigzagToMat/
// matToZigzag use, the same convention as idct8x8's in[v][u] input.
func fdct8x8(in [8][8]float64) (out [8][8]int) {
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var sum float64
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					sum += in[x][y] * idctCos[x][u] * idctCos[y][v]
				}
			}
			out[v][u] = int(math.Round(0.25 * cCoef(u) * cCoef(v) * sum))
		}
	}
	return out
}

// reconstructBlock runs dequantize -> inverse zig-zag -> IDCT -> level
// shift for one component's 64-entry zig-zag coefficient sequence,
// returning an 8x8 matrix of unclamped sample values (still in Y/Cb/Cr
// space, clamping happens in the color transform).
func reconstructBlock(z [64]int, quant *[64]int) [8][8]int {
	var dq [64]int
	for i := 0; i < 64; i++ {
		dq[i] = z[i] * quant[i]
	}
	mat := zigzagToMat(dq)
	f := idct8x8(mat)

	var out [8][8]int
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			out[x][y] = int(math.Round(f[x][y])) + 128
		}
	}
	return out
}

func clamp8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// ycbcrToRGB converts one pixel, BT.601-like full range.
func ycbcrToRGB(y, cb, cr int) (r, g, b byte) {
	cbf := float64(cb - 128)
	crf := float64(cr - 128)
	yf := float64(y)
	r = clamp8(int(math.Floor(yf + 1.402*crf)))
	g = clamp8(int(math.Floor(yf - 0.344136*cbf - 0.714136*crf)))
	b = clamp8(int(math.Floor(yf + 1.772*cbf)))
	return
}

// rgbToYCbCr is the inverse transform, standard full-range BT.601
// coefficients.
func rgbToYCbCr(r, g, b byte) (y, cb, cr float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	y = 0.299*rf + 0.587*gf + 0.114*bf
	cb = -0.168736*rf - 0.331264*gf + 0.5*bf + 128
	cr = 0.5*rf - 0.418688*gf - 0.081312*bf + 128
	return
}
