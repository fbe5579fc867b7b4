// Command bjpeg is the CLI driver for the baseline JPEG codec: decode a
// .jpg/.jpeg to a sibling .ppm, or encode a .ppm to a named .jpg.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjpeg/bjpeg/internal/jpeg"
	"github.com/bjpeg/bjpeg/internal/logger"
	"github.com/bjpeg/bjpeg/internal/ppm"
)

const appName = "bjpeg"

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   appName + " <input> [output]",
		Short: appName + " - baseline JPEG decode/encode",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logger.WarnLevel
			if verbose {
				level = logger.DebugLevel
			}
			return run(args, logger.New(os.Stderr, level))
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable per-marker decode tracing")
	return rootCmd.Execute()
}

func run(args []string, log *logger.Logger) error {
	in := args[0]
	ext := strings.ToLower(filepath.Ext(in))

	switch ext {
	case ".jpg", ".jpeg":
		out := args[0][:len(in)-len(ext)] + ".ppm"
		if len(args) == 2 {
			out = args[1]
		}
		return decodeToPPM(in, out, log)
	case ".ppm":
		if len(args) != 2 {
			return fmt.Errorf("%s: encoding requires an output .jpg path", appName)
		}
		return encodeFromPPM(in, args[1])
	default:
		return fmt.Errorf("%s: unrecognized input extension %q", appName, ext)
	}
}

func decodeToPPM(in, out string, log *logger.Logger) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return &jpeg.Error{Kind: jpeg.Io, Op: "read input", Offset: -1, Err: err}
	}
	dec := jpeg.NewDecoder(data, log)
	frame, err := dec.Decode()
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return &jpeg.Error{Kind: jpeg.Io, Op: "create output", Offset: -1, Err: err}
	}
	defer f.Close()
	img := &ppm.Image{W: frame.Width, H: frame.Height, Pix: frame.Pix}
	if err := ppm.Write(f, img, "PPM dump created using bjpeg"); err != nil {
		return err
	}
	log.Infof("decoded %s -> %s (%dx%d)", in, out, frame.Width, frame.Height)
	return nil
}

func encodeFromPPM(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return &jpeg.Error{Kind: jpeg.Io, Op: "open input", Offset: -1, Err: err}
	}
	defer f.Close()
	img, err := ppm.Read(f)
	if err != nil {
		return &jpeg.Error{Kind: jpeg.InvalidRaster, Op: "read PPM", Offset: -1, Err: err}
	}
	frame := &jpeg.Frame{Width: img.W, Height: img.H, Pix: img.Pix}
	data, err := jpeg.Encode(frame, jpeg.EncodeOptions{})
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return &jpeg.Error{Kind: jpeg.Io, Op: "write output", Offset: -1, Err: err}
	}
	return nil
}
