package jpeg

// Marker bytes follow 0xFF in the JFIF stream. Only the subset this codec
// recognizes is named here; anything else in 0xC0..0xFE is either skipped
// by length (unknown APPn/unused reserved markers) or rejected as
// Unsupported (other start-of-frame variants, restart markers).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerDQT  = 0xDB
	markerDNL  = 0xDC
	markerDRI  = 0xDD
	markerDHT  = 0xC4
	markerDAC  = 0xCC
	markerCOM  = 0xFE
	markerAPP0 = 0xE0

	markerSOF0 = 0xC0 // baseline DCT, the only supported frame type
)

// isRSTm reports whether m is one of the eight restart markers 0xD0-0xD7.
func isRSTm(m byte) bool { return m >= 0xD0 && m <= 0xD7 }

// isOtherSOF reports whether m is a start-of-frame marker other than SOF0:
// extended sequential, progressive, lossless, differential and arithmetic
// variants. All of these are Unsupported per the baseline-4:4:4 scope.
func isOtherSOF(m byte) bool {
	switch m {
	case 0xC1, 0xC2, 0xC3, 0xC5, 0xC6, 0xC7, 0xC8, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
		return true
	}
	return false
}

func isAPPn(m byte) bool { return m >= 0xE0 && m <= 0xEF }
