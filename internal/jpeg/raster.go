package jpeg

// rasterAssembler places reconstructed MCUs into a padded Wp x Hp raster
// then trims to the declared W x H.
type rasterAssembler struct {
	wp, hp int
	w, h   int
	pix    []byte // Wp*Hp*3, row-major RGB
}

func newRasterAssembler(wp, hp, w, h int) *rasterAssembler {
	return &rasterAssembler{wp: wp, hp: hp, w: w, h: h, pix: make([]byte, wp*hp*3)}
}

// placeMCU writes one MCU's three 8x8 component matrices (already
// dequantized/IDCT'd/level-shifted Y, Cb, Cr) into the window starting at
// (x0, y0), applying the color transform per pixel.
func (a *rasterAssembler) placeMCU(x0, y0 int, blocks *[3][8][8]int) {
	for dy := 0; dy < 8; dy++ {
		row := y0 + dy
		if row >= a.hp {
			continue
		}
		for dx := 0; dx < 8; dx++ {
			col := x0 + dx
			if col >= a.wp {
				continue
			}
			yv := blocks[0][dx][dy]
			cb := blocks[1][dx][dy]
			cr := blocks[2][dx][dy]
			r, g, b := ycbcrToRGB(yv, cb, cr)
			idx := (row*a.wp + col) * 3
			a.pix[idx], a.pix[idx+1], a.pix[idx+2] = r, g, b
		}
	}
}

// trim removes the padding rows/columns beyond the declared W x H.
func (a *rasterAssembler) trim() []byte {
	if a.wp == a.w && a.hp == a.h {
		return a.pix
	}
	out := make([]byte, a.w*a.h*3)
	for row := 0; row < a.h; row++ {
		srcOff := row * a.wp * 3
		dstOff := row * a.w * 3
		copy(out[dstOff:dstOff+a.w*3], a.pix[srcOff:srcOff+a.w*3])
	}
	return out
}
