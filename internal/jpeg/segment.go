package jpeg

import (
	"encoding/binary"

	"github.com/bjpeg/bjpeg/internal/logger"
)

// NewDecoder prepares a decoder over a full in-memory JFIF byte stream.
// log may be nil; when non-nil it receives per-marker Debug traces and
// Warn-level skip notices.
func NewDecoder(data []byte, log *logger.Logger) *Decoder {
	return &Decoder{data: data, st: stateInit, log: log}
}

// Decode runs the full marker-driven scan and returns the assembled
// raster: header segments (APPn/COM/DQT/DHT/SOF0) populate the decoder's
// tables and frame parameters, then SOS hands off to the entropy decoder.
func (d *Decoder) Decode() (*Frame, error) {
	if err := d.expectSOI(); err != nil {
		return nil, err
	}

	var sawSOF0 bool
	for d.st == stateInHeaders || d.st == stateAwaitScan {
		marker, err := d.readMarker()
		if err != nil {
			return nil, err
		}
		d.log.Debugf("marker 0xFF%02X at offset %d", marker, d.offset-2)

		switch {
		case marker == markerEOI:
			return nil, newErr(Malformed, "Decode", d.offset, nil)
		case marker == markerAPP0:
			if err := d.parseAPP0(); err != nil {
				return nil, err
			}
		case isAPPn(marker):
			if err := d.skipSegment("APPn"); err != nil {
				return nil, err
			}
		case marker == markerCOM:
			if err := d.parseCOM(); err != nil {
				return nil, err
			}
		case marker == markerDQT:
			if err := d.parseDQT(); err != nil {
				return nil, err
			}
		case marker == markerDHT:
			if err := d.parseDHT(); err != nil {
				return nil, err
			}
		case marker == markerSOF0:
			if err := d.parseSOF0(); err != nil {
				return nil, err
			}
			sawSOF0 = true
			d.st = stateAwaitScan
		case isOtherSOF(marker):
			return nil, newErr(Unsupported, "SOFn", d.offset, nil)
		case marker == markerDRI, marker == markerDNL, marker == markerDAC, isRSTm(marker):
			return nil, newErr(Unsupported, "Decode", d.offset, nil)
		case marker == markerSOS:
			if !sawSOF0 {
				return nil, newErr(Malformed, "SOS", d.offset, nil)
			}
			d.st = stateInScan
			return d.decodeScanAndAssemble()
		default:
			d.log.Warnf("skipping unrecognized marker 0xFF%02X at offset %d", marker, d.offset)
			if err := d.skipSegment("unknown"); err != nil {
				return nil, err
			}
		}
	}
	return nil, newErr(Malformed, "Decode", d.offset, nil)
}

func (d *Decoder) expectSOI() error {
	d.st = stateAwaitSOI
	if len(d.data) < 2 || d.data[0] != 0xFF || d.data[1] != markerSOI {
		return newErr(Malformed, "SOI", 0, nil)
	}
	d.offset = 2
	d.st = stateInHeaders
	return nil
}

// readMarker reads the next 0xFF-prefixed marker byte, skipping any fill
// bytes (extra 0xFF) between segments as libjpeg-family parsers tolerate.
func (d *Decoder) readMarker() (byte, error) {
	if d.offset >= len(d.data) {
		return 0, newErr(Malformed, "readMarker", d.offset, nil)
	}
	if d.data[d.offset] != 0xFF {
		return 0, newErr(Malformed, "readMarker", d.offset, nil)
	}
	d.offset++
	for d.offset < len(d.data) && d.data[d.offset] == 0xFF {
		d.offset++
	}
	if d.offset >= len(d.data) {
		return 0, newErr(Malformed, "readMarker", d.offset, nil)
	}
	m := d.data[d.offset]
	d.offset++
	return m, nil
}

// segmentLength reads the 2-byte big-endian length field (inclusive of
// itself) that follows every marker except SOI/EOI/RSTm.
func (d *Decoder) segmentLength() (int, error) {
	if d.offset+2 > len(d.data) {
		return 0, newErr(Malformed, "segmentLength", d.offset, nil)
	}
	l := int(binary.BigEndian.Uint16(d.data[d.offset:]))
	if l < 2 || d.offset+l > len(d.data) {
		return 0, newErr(Malformed, "segmentLength", d.offset, nil)
	}
	return l, nil
}

func (d *Decoder) skipSegment(op string) error {
	l, err := d.segmentLength()
	if err != nil {
		return err
	}
	d.offset += l
	return nil
}

func (d *Decoder) parseCOM() error {
	l, err := d.segmentLength()
	if err != nil {
		return newErr(Malformed, "COM", d.offset, err)
	}
	d.Comment = string(d.data[d.offset+2 : d.offset+l])
	d.offset += l
	return nil
}

// parseAPP0 parses the JFIF density fields and validates the embedded
// thumbnail size; the thumbnail pixels themselves are skipped.
func (d *Decoder) parseAPP0() error {
	l, err := d.segmentLength()
	if err != nil {
		return newErr(Malformed, "APP0", d.offset, err)
	}
	seg := d.data[d.offset+2 : d.offset+l]
	end := d.offset + l
	defer func() { d.offset = end }()

	if len(seg) < 5 || string(seg[0:5]) != "JFIF\x00" {
		// Not a JFIF-tagged APP0 (e.g. JFXX); tolerate and skip.
		return nil
	}
	if len(seg) < 5+2+1+2+2+2 {
		return newErr(Malformed, "APP0", d.offset, nil)
	}
	p := 5
	d.JFIF.VersionMajor, d.JFIF.VersionMinor = seg[p], seg[p+1]
	p += 2
	d.JFIF.DensityUnits = seg[p]
	p++
	d.JFIF.Xdensity = int(binary.BigEndian.Uint16(seg[p:]))
	p += 2
	d.JFIF.Ydensity = int(binary.BigEndian.Uint16(seg[p:]))
	p += 2
	xThumb, yThumb := int(seg[p]), int(seg[p+1])
	p += 2
	thumbBytes := xThumb * yThumb * 3
	if p+thumbBytes > len(seg) {
		return newErr(Malformed, "APP0 thumbnail", d.offset, nil)
	}
	return nil
}

// parseDQT parses one or more quantization tables: precision nibble must
// be 0 (8-bit), table index in {0..3}, then 64 zig-zag-ordered
// coefficients.
func (d *Decoder) parseDQT() error {
	l, err := d.segmentLength()
	if err != nil {
		return newErr(Malformed, "DQT", d.offset, err)
	}
	end := d.offset + l
	p := d.offset + 2
	for p < end {
		pq := d.data[p] >> 4
		tq := d.data[p] & 0x0F
		p++
		if pq != 0 {
			return newErr(Unsupported, "DQT", p, nil)
		}
		if tq > 3 {
			return newErr(Malformed, "DQT", p, nil)
		}
		if p+64 > end {
			return newErr(Malformed, "DQT", p, nil)
		}
		var tbl [64]int
		for i := 0; i < 64; i++ {
			tbl[i] = int(d.data[p+i])
		}
		d.quantTables[tq] = &tbl
		p += 64
	}
	d.offset = end
	return nil
}

// parseDHT parses one or more Huffman tables: class nibble (0=DC, 1=AC),
// identifier nibble, 16 length counts, then the symbol list.
func (d *Decoder) parseDHT() error {
	l, err := d.segmentLength()
	if err != nil {
		return newErr(Malformed, "DHT", d.offset, err)
	}
	end := d.offset + l
	p := d.offset + 2
	for p < end {
		if p+17 > end {
			return newErr(Malformed, "DHT", p, nil)
		}
		class := d.data[p] >> 4
		id := d.data[p] & 0x0F
		p++
		if id > 3 {
			return newErr(Malformed, "DHT", p, nil)
		}
		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(d.data[p+i])
			total += counts[i]
		}
		p += 16
		if total > 256 || p+total > end {
			return newErr(Malformed, "DHT", p, nil)
		}
		symbols := make([]byte, total)
		copy(symbols, d.data[p:p+total])
		p += total

		tree, err := buildHuffTree(counts, symbols)
		if err != nil {
			return err
		}
		if class == 0 {
			d.dcTrees[id] = tree
		} else {
			d.acTrees[id] = tree
		}
	}
	d.offset = end
	return nil
}

// parseSOF0 parses the baseline frame header: precision, W, H, component
// list with sampling factors and quant-table selector. Only 8-bit
// three-component frames with (1,1) sampling everywhere are accepted;
// anything else is Unsupported.
func (d *Decoder) parseSOF0() error {
	l, err := d.segmentLength()
	if err != nil {
		return newErr(Malformed, "SOF0", d.offset, err)
	}
	end := d.offset + l
	p := d.offset + 2

	if p+6 > end {
		return newErr(Malformed, "SOF0", p, nil)
	}
	precision := d.data[p]
	if precision != 8 {
		return newErr(Unsupported, "SOF0", p, nil)
	}
	h := int(binary.BigEndian.Uint16(d.data[p+1:]))
	w := int(binary.BigEndian.Uint16(d.data[p+3:]))
	nComp := int(d.data[p+5])
	p += 6
	if w <= 0 || h <= 0 || w > 65535 || h > 65535 {
		return newErr(Malformed, "SOF0", p, nil)
	}
	if nComp != 3 {
		return newErr(Unsupported, "SOF0", p, nil)
	}
	for i := 0; i < 3; i++ {
		if p+3 > end {
			return newErr(Malformed, "SOF0", p, nil)
		}
		id := d.data[p]
		hv := d.data[p+1]
		hSamp, vSamp := int(hv>>4), int(hv&0x0F)
		qsel := int(d.data[p+2])
		if hSamp != 1 || vSamp != 1 {
			return newErr(Unsupported, "SOF0 sampling", p, nil)
		}
		if qsel > 3 {
			return newErr(Malformed, "SOF0", p, nil)
		}
		d.components[i] = component{id: id, hSamp: hSamp, vSamp: vSamp, quantSel: qsel}
		p += 3
	}
	d.width, d.height = w, h
	d.offset = end
	return nil
}
