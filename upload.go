package ogimage

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxUploadSize = 10 << 20 // 10MB

// uploadToken reads the admin token from the Authorization header or the
// "token" form field.
func uploadToken(c echo.Context) string {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.FormValue("token")
}

// handleLogoUpload replaces the source logo, regenerates the OG image and
// writes it to the configured output path.
func (a *App) handleLogoUpload(c echo.Context) error {
	if a.Config.AdminToken == "" {
		return c.String(http.StatusForbidden, "Uploads are disabled")
	}
	ip := c.RealIP()
	if !a.uploadLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	if subtle.ConstantTimeCompare([]byte(uploadToken(c)), []byte(a.Config.AdminToken)) != 1 {
		a.uploadLimiter.Record(ip)
		return c.String(http.StatusUnauthorized, "Invalid token")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.String(http.StatusBadRequest, "No logo file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	logo, err := Decode(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	// Stored as PNG so the logo keeps its alpha channel whatever the upload format.
	var buf bytes.Buffer
	if err := Encode(&buf, logo); err != nil {
		return err
	}
	cfg := a.Cache.Config()
	if err := writeFile(cfg.LogoPath, buf.Bytes()); err != nil {
		return fmt.Errorf("store logo: %w", err)
	}
	a.Cache.Invalidate()

	res, err := a.Cache.Get()
	if err != nil {
		return err
	}
	if err := writeFile(cfg.OutputPath, res.PNG); err != nil {
		return err
	}
	c.Logger().Infof("logo replaced from %s, wrote %s (%dx%d)", file.Filename, cfg.OutputPath, res.Width, res.Height)

	rec, err := a.Store.LatestRender()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}
