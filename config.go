package ogimage

import (
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds the canvas geometry and file locations for one OG image.
type Config struct {
	Width      int    // Canvas width (default 1200)
	Height     int    // Canvas height (default 630)
	Background string // Hex fill color (default "#595748", i.e. RGB(89,87,72))
	Padding    int    // Margin kept free on every side of the logo (0 selects the default 40)

	LogoPath   string // Source logo (default "public/held_logo_mixed.png")
	OutputPath string // Generated PNG (default "public/held_og_image.png")
}

// DefaultConfig returns the configuration used by the ogimage command.
func DefaultConfig() Config {
	return Config{
		Width:      1200,
		Height:     630,
		Background: "#595748",
		Padding:    40,
		LogoPath:   "public/held_logo_mixed.png",
		OutputPath: "public/held_og_image.png",
	}
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Background == "" {
		c.Background = d.Background
	}
	if c.Padding == 0 {
		c.Padding = d.Padding
	}
	if c.LogoPath == "" {
		c.LogoPath = d.LogoPath
	}
	if c.OutputPath == "" {
		c.OutputPath = d.OutputPath
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.Padding < 0 {
		return fmt.Errorf("invalid padding %d", c.Padding)
	}
	if w, h := c.contentArea(); w <= 0 || h <= 0 {
		return fmt.Errorf("padding %d leaves no room on a %dx%d canvas", c.Padding, c.Width, c.Height)
	}
	return nil
}

// contentArea is the largest box the logo may occupy.
func (c Config) contentArea() (int, int) {
	return c.Width - 2*c.Padding, c.Height - 2*c.Padding
}

// BackgroundColor parses Background into an opaque color.
func (c Config) BackgroundColor() (color.RGBA, error) {
	col, err := colorful.Hex(c.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse background %q: %w", c.Background, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithUploadLimit sets how many failed upload attempts an IP may make per
// window (default 5 per minute).
func WithUploadLimit(max int, window time.Duration) Option {
	return func(a *App) {
		a.uploadMax = max
		a.uploadWindow = window
	}
}

// ServerConfig holds all configuration for the OG image HTTP service.
type ServerConfig struct {
	Image Config

	SiteName    string // og:title (default "Held")
	SiteURL     string // Canonical URL used for og:url and og:image (default "http://localhost:3001")
	Description string // og:description

	Addr         string // Listen address (default ":3001")
	DatabasePath string // SQLite path for render history (default "data/og.db")

	AdminToken string        // Bearer token for logo uploads; uploads are disabled when empty
	CacheTTL   time.Duration // Render cache TTL (default 10min)
}

func (c *ServerConfig) setDefaults() {
	c.Image.setDefaults()
	if c.SiteName == "" {
		c.SiteName = "Held"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3001"
	}
	if c.Addr == "" {
		c.Addr = ":3001"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/og.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 10 * time.Minute
	}
}
