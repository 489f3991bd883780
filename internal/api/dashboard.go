package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type dashboardView struct {
	CountryLabel   string
	DefaultRegions []string
}

// GetDashboard serves the page. It renders without data; the page pulls the
// charts from /api once they are available.
func (h *Handler) GetDashboard(c echo.Context) error {
	regions := h.opts.DefaultRegions
	if regions == nil {
		regions = []string{}
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, dashboardView{
		CountryLabel:   h.opts.CountryLabel,
		DefaultRegions: regions,
	}); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
