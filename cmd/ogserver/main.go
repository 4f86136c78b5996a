// Command ogserver serves the OG image and its meta tags over HTTP.
// All settings come from environment variables.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/ogimage"
)

func main() {
	ttl, err := time.ParseDuration(ogimage.EnvOr("OG_CACHE_TTL", "10m"))
	if err != nil {
		log.Fatalf("invalid OG_CACHE_TTL: %v", err)
	}

	img := ogimage.DefaultConfig()
	img.Background = ogimage.EnvOr("OG_BACKGROUND", img.Background)
	img.LogoPath = ogimage.EnvOr("OG_LOGO_PATH", img.LogoPath)
	img.OutputPath = ogimage.EnvOr("OG_OUTPUT_PATH", img.OutputPath)

	app := ogimage.New(ogimage.ServerConfig{
		Image:        img,
		SiteName:     ogimage.EnvOr("SITE_NAME", "Held"),
		SiteURL:      ogimage.EnvOr("SITE_URL", "http://localhost:3001"),
		Description:  os.Getenv("SITE_DESCRIPTION"),
		Addr:         ogimage.EnvOr("ADDR", ":3001"),
		DatabasePath: ogimage.EnvOr("DATABASE_PATH", "data/og.db"),
		AdminToken:   os.Getenv("OG_ADMIN_TOKEN"),
		CacheTTL:     ttl,
	}, ogimage.WithCustomRoutes(func(a *ogimage.App) {
		// Last image written to disk, as opposed to the cached render.
		a.Echo.File("/"+filepath.Base(img.OutputPath), img.OutputPath)
	}))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
