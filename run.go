package ogimage

import (
	"errors"
	"fmt"
	"io"
)

// Run generates the OG image described by cfg and reports the outcome on w.
// Failures are printed, never returned: the caller always exits normally.
func Run(w io.Writer, cfg Config) {
	// A decoder panic on a malformed file must not take the process down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(w, "Error: %v\n", r)
		}
	}()

	res, err := Generate(cfg)
	if err != nil {
		Report(w, err)
		return
	}
	fmt.Fprintf(w, "Created %s\n", res.Path)
	fmt.Fprintf(w, "Size: %dx%d pixels\n", res.Width, res.Height)
}

// Report prints err in the console format of Run.
func Report(w io.Writer, err error) {
	if errors.Is(err, ErrUnsupportedFormat) {
		fmt.Fprintf(w, "Error: no image decoder is available for this file (%v).\n", err)
		fmt.Fprintln(w, "Convert the logo to PNG, JPEG, GIF, BMP, TIFF or WebP and run again.")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
