// Command ogimage writes public/held_og_image.png: the site logo centered on
// a 1200x630 background, for social-media link previews.
//
// It takes no arguments. Failures are printed and the exit status is always 0.
package main

import (
	"os"

	"github.com/eringen/ogimage"
)

func main() {
	ogimage.Run(os.Stdout, ogimage.DefaultConfig())
}
