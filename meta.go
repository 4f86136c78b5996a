package ogimage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// PageMeta carries OpenGraph and Twitter card metadata into the <head> snippet.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	ImageURL    string
	ImageWidth  int
	ImageHeight int
}

type metaTag struct {
	attr    string // "property" for og:*, "name" for twitter:*
	key     string
	content string
}

func (m PageMeta) tags() []metaTag {
	ogType := m.OGType
	if ogType == "" {
		ogType = "website"
	}
	tags := []metaTag{
		{"property", "og:type", ogType},
		{"property", "og:title", m.Title},
		{"property", "og:description", m.Description},
		{"property", "og:url", m.URL},
		{"property", "og:image", m.ImageURL},
	}
	if m.ImageWidth > 0 && m.ImageHeight > 0 {
		tags = append(tags,
			metaTag{"property", "og:image:width", strconv.Itoa(m.ImageWidth)},
			metaTag{"property", "og:image:height", strconv.Itoa(m.ImageHeight)},
		)
	}
	return append(tags,
		metaTag{"name", "twitter:card", "summary_large_image"},
		metaTag{"name", "twitter:image", m.ImageURL},
	)
}

// OGMeta renders the meta tags for m. Tags with empty content are skipped.
func OGMeta(m PageMeta) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, t := range m.tags() {
			if t.content == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "<meta %s=\"%s\" content=\"%s\">\n",
				t.attr, t.key, templ.EscapeString(t.content)); err != nil {
				return err
			}
		}
		return nil
	})
}

// renderHTML writes a templ component as an HTTP 200 HTML response.
func renderHTML(c echo.Context, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// AbsoluteURL joins a base URL with path segments.
func AbsoluteURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return strings.TrimSuffix(u.String(), "/")
}
