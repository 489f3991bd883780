package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coviddash/internal/charts"
	"coviddash/internal/engine"
	"coviddash/internal/export"
	"coviddash/internal/metrics"
)

// Options configures what the dashboard shows around the data.
type Options struct {
	CountryLabel   string
	DefaultRegions []string
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

type Handler struct {
	snap atomic.Pointer[engine.Snapshot]
	opts Options
}

// NewHandler creates a handler. A nil snapshot is allowed; data routes answer
// 503 until SetData is called.
func NewHandler(snap *engine.Snapshot, opts Options) *Handler {
	h := &Handler{opts: opts}
	if snap != nil {
		h.snap.Store(snap)
	}
	return h
}

// SetData publishes a new snapshot. Requests in flight keep the one they
// started with.
func (h *Handler) SetData(snap *engine.Snapshot) {
	h.snap.Store(snap)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetDashboard)
	e.GET("/healthz", h.GetHealth)
	if h.opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api", h.requireData)
	api.GET("/options", h.GetOptions)
	api.GET("/charts/regions", h.GetRegionChart)
	api.GET("/charts/country", h.GetCountryChart)
	api.GET("/totals/regions", h.GetRegionTotals)
	api.GET("/totals/country", h.GetCountryTotals)
	api.GET("/export/totals.csv", h.ExportCSV)
	api.GET("/export/totals.xlsx", h.ExportXLSX)
	api.GET("/export/records.arrow", h.ExportArrow)
}

// requireData answers 503 while the first load is still running.
func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap := h.snap.Load()
		if snap == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "data is still loading")
		}
		c.Set(snapshotKey, snap)
		return next(c)
	}
}

const snapshotKey = "snapshot"

func snapshot(c echo.Context) *engine.Snapshot {
	return c.Get(snapshotKey).(*engine.Snapshot)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginate[T any](c echo.Context, items []T) error {
	total := len(items)
	limit, offset := getPaginationParams(c, total)

	start := min(offset, total)
	end := total
	if limit < total-start {
		end = start + limit
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   items[start:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetHealth(c echo.Context) error {
	snap := h.snap.Load()
	if snap == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"status": "loading"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"records":   snap.Data.Records,
		"loaded_at": snap.Data.LoadedAt,
	})
}

func (h *Handler) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, charts.Options(snapshot(c).Data))
}

// GetRegionChart draws the regions given as repeated ?region= parameters.
func (h *Handler) GetRegionChart(c echo.Context) error {
	h.countChart("regions")
	selection := c.QueryParams()["region"]
	return c.JSON(http.StatusOK, charts.RegionChart(selection, snapshot(c).Data))
}

func (h *Handler) GetCountryChart(c echo.Context) error {
	h.countChart("country")
	title := "Total COVID-19 Deaths in the " + h.opts.CountryLabel
	return c.JSON(http.StatusOK, charts.CountryChart(title, snapshot(c).Data))
}

func (h *Handler) GetRegionTotals(c echo.Context) error {
	return paginate(c, snapshot(c).Data.RegionTotals)
}

func (h *Handler) GetCountryTotals(c echo.Context) error {
	return paginate(c, snapshot(c).Data.CountryTotals)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := export.WriteRegionCSV(&buf, snapshot(c).Data.RegionTotals); err != nil {
		return err
	}
	return attachment(c, "text/csv; charset=utf-8", "totals.csv", buf.Bytes())
}

func (h *Handler) ExportXLSX(c echo.Context) error {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, snapshot(c).Data); err != nil {
		return err
	}
	return attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "totals.xlsx", buf.Bytes())
}

func (h *Handler) ExportArrow(c echo.Context) error {
	var buf bytes.Buffer
	if err := export.WriteArrow(&buf, snapshot(c).Store); err != nil {
		return err
	}
	return attachment(c, "application/vnd.apache.arrow.stream", "records.arrow", buf.Bytes())
}

func attachment(c echo.Context, contentType, name string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, contentType, body)
}

func (h *Handler) countChart(name string) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.ChartRequests.WithLabelValues(name).Inc()
	}
}
