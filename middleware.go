package ogimage

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:",
		HSTSMaxAge:            31536000,
	}))

	e.Use(middleware.BodyLimit("10M"))

	e.Use(cacheControlMiddleware)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case path == "/og-image.png" || path == "/og-meta":
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		default:
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

// httpErrorHandler maps a missing source logo to 404 and hides other
// internal errors behind a plain 500.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, ErrMissingInput) {
		_ = c.String(http.StatusNotFound, "Logo not found")
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < 500 {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	c.Logger().Errorf("server error: %v", err)
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	_ = c.String(http.StatusInternalServerError, "Internal Server Error")
}
