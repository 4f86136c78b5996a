package ogimage

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	maxRenderHistory  = 100
	previewsPerMinute = 30
)

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleImage serves the cached OG image. ?w=N returns a scaled preview;
// previews are encoded per request and rate limited per IP.
func (a *App) handleImage(c echo.Context) error {
	res, err := a.Cache.Get()
	if err != nil {
		return err
	}

	ws := c.QueryParam("w")
	if ws == "" {
		etag := `"` + res.Checksum + `"`
		c.Response().Header().Set("ETag", etag)
		if etagMatches(c.Request().Header.Get("If-None-Match"), etag) {
			return c.NoContent(http.StatusNotModified)
		}
		return c.Blob(http.StatusOK, "image/png", res.PNG)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 || w > res.Width {
		return c.String(http.StatusBadRequest, "w must be between 1 and "+strconv.Itoa(res.Width))
	}
	if !a.previewLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many preview requests. Try again later.")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, Thumbnail(res.Image, w)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleMeta renders the OpenGraph head snippet for the current image.
func (a *App) handleMeta(c echo.Context) error {
	res, err := a.Cache.Get()
	if err != nil {
		return err
	}
	return renderHTML(c, OGMeta(a.pageMeta(res)))
}

func (a *App) pageMeta(res Result) PageMeta {
	return PageMeta{
		Title:       a.Config.SiteName,
		Description: a.Config.Description,
		URL:         AbsoluteURL(a.Config.SiteURL),
		OGType:      "website",
		ImageURL:    AbsoluteURL(a.Config.SiteURL, "og-image.png"),
		ImageWidth:  res.Width,
		ImageHeight: res.Height,
	}
}

func (a *App) handleRenders(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = min(n, maxRenderHistory)
	}
	records, err := a.Store.ListRenders(limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []RenderRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// etagMatches reports whether an If-None-Match header value names etag.
func etagMatches(header, etag string) bool {
	for _, v := range strings.Split(header, ",") {
		v = strings.TrimPrefix(strings.TrimSpace(v), "W/")
		if v == "*" || v == etag {
			return true
		}
	}
	return false
}
