package jpeg

// zigZagRowCol[i] gives the (row, col) matrix position of zig-zag index i,
// the standard JPEG diagonal traversal starting at (0,0).
var zigZagRowCol = [64][2]int{
	{0, 0}, {0, 1}, {1, 0}, {2, 0}, {1, 1}, {0, 2}, {0, 3}, {1, 2},
	{2, 1}, {3, 0}, {4, 0}, {3, 1}, {2, 2}, {1, 3}, {0, 4}, {0, 5},
	{1, 4}, {2, 3}, {3, 2}, {4, 1}, {5, 0}, {6, 0}, {5, 1}, {4, 2},
	{3, 3}, {2, 4}, {1, 5}, {0, 6}, {0, 7}, {1, 6}, {2, 5}, {3, 4},
	{4, 3}, {5, 2}, {6, 1}, {7, 0}, {7, 1}, {6, 2}, {5, 3}, {4, 4},
	{3, 5}, {2, 6}, {1, 7}, {2, 7}, {3, 6}, {4, 5}, {5, 4}, {6, 3},
	{7, 2}, {7, 3}, {6, 4}, {5, 5}, {4, 6}, {3, 7}, {4, 7}, {5, 6},
	{6, 5}, {7, 4}, {7, 5}, {6, 6}, {5, 7}, {6, 7}, {7, 6}, {7, 7},
}

// zigzagToMat places a 64-entry zig-zag-ordered sequence into an 8x8
// row-major matrix.
func zigzagToMat(z [64]int) (mat [8][8]int) {
	for i, rc := range zigZagRowCol {
		mat[rc[0]][rc[1]] = z[i]
	}
	return mat
}

// matToZigzag reads an 8x8 row-major matrix out in zig-zag order, the
// inverse of zigzagToMat.
func matToZigzag(mat [8][8]int) (z [64]int) {
	for i, rc := range zigZagRowCol {
		z[i] = mat[rc[0]][rc[1]]
	}
	return z
}

// categoryOf returns the number of bits needed to represent the magnitude
// of v: 0 for v==0, else ceil(log2(|v|+1)).
func categoryOf(v int) int {
	if v < 0 {
		v = -v
	}
	cat := 0
	for v > 0 {
		cat++
		v >>= 1
	}
	return cat
}

// valueToBits encodes v into its category-width bit pattern: v's direct
// binary representation when positive, or (v + 2^cat - 1) when negative,
// returned as a string of '0'/'1'.
func valueToBits(v int) string {
	cat := categoryOf(v)
	if cat == 0 {
		return ""
	}
	var bits int
	if v >= 0 {
		bits = v
	} else {
		bits = v + (1 << cat) - 1
	}
	out := make([]byte, cat)
	for i := cat - 1; i >= 0; i-- {
		if bits&1 != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
		bits >>= 1
	}
	return string(out)
}

// bitsToValue is the inverse of valueToBits, applying the coefficient
// sign rule: if the top bit is 1, value is the direct numeric
// interpretation; otherwise value = bits - (2^cat - 1).
func bitsToValue(bits string, cat int) int {
	if cat == 0 {
		return 0
	}
	var v int
	for i := 0; i < cat; i++ {
		v <<= 1
		if bits[i] == '1' {
			v |= 1
		}
	}
	return signExtend(v, cat)
}

// signExtend applies the sign rule to a cat-bit unsigned value already read
// from the bitstream MSB first.
func signExtend(v, cat int) int {
	if cat == 0 {
		return 0
	}
	if v&(1<<(cat-1)) != 0 {
		return v
	}
	return v - (1<<cat - 1)
}
