package jpeg

import "github.com/bjpeg/bjpeg/internal/logger"

// state is the decoder's position in the marker stream.
type state int

const (
	stateInit state = iota
	stateAwaitSOI
	stateInHeaders
	stateAwaitScan
	stateInScan
	stateFinalized
)

// component holds one frame component's identifiers and per-scan decode
// state. Frame and scan fields share a struct since this decoder only
// ever handles the 4:4:4 three-component, single-scan case.
type component struct {
	id       byte
	hSamp    int
	vSamp    int
	quantSel int // index into quantTables, 0..3
	dcTable  int // DHT selector, class DC
	acTable  int // DHT selector, class AC

	dcPred int // running DC predictor, reset to 0 at scan start
}

// JFIFInfo captures the APP0 density metadata the scanner observes.
type JFIFInfo struct {
	VersionMajor, VersionMinor byte
	DensityUnits               byte
	Xdensity, Ydensity         int
}

// Decoder holds all state owned by one decode call: quant tables, Huffman
// trees, frame parameters, and the DC predictors. Nothing lives at
// package level, so two decoders never interfere.
type Decoder struct {
	data   []byte
	offset int
	st     state

	width, height int
	components    [3]component // Y, Cb, Cr in that order, always 3 for 4:4:4

	quantTables [4]*[64]int // nil if not yet defined

	dcTrees [4]*huffTree
	acTrees [4]*huffTree

	JFIF    JFIFInfo
	Comment string

	log *logger.Logger
}

// Frame is the public result of a successful Decode call.
type Frame struct {
	Width, Height int
	// Pix is W*H*3 raw RGB bytes, row-major.
	Pix []byte
}
