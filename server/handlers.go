// Package server exposes forecasts, point lookups and charts over HTTP
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aouyang1/go-climate-forecaster"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/gin-gonic/gin"
)

// Forecaster serves cached forecast tables by target
type Forecaster interface {
	GetForecast(ctx context.Context, tgt target.Target) (*forecaster.Table, error)
	Invalidate(tgt target.Target)
}

// ErrorResponse is the body of every non 2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type TargetResponse struct {
	Name  target.Target `json:"name"`
	Title string        `json:"title"`
	Unit  string        `json:"unit"`
}

type LookupResponse struct {
	Target target.Target      `json:"target"`
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Handlers holds the HTTP handlers of the forecast api
type Handlers struct {
	f Forecaster
}

func NewHandlers(f Forecaster) *Handlers {
	return &Handlers{f: f}
}

// HandleTargets handles GET /targets
func (h *Handlers) HandleTargets(c *gin.Context) {
	res := make([]TargetResponse, 0, len(target.All()))
	for _, tgt := range target.All() {
		info, err := tgt.Info()
		if err != nil {
			writeError(c, err)
			return
		}
		res = append(res, TargetResponse{Name: tgt, Title: info.Title, Unit: info.Unit})
	}
	c.JSON(http.StatusOK, res)
}

// HandleForecast handles GET /forecast/:target
func (h *Handlers) HandleForecast(c *gin.Context) {
	tbl, ok := h.table(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tbl)
}

// HandleLookup handles GET /forecast/:target/lookup?date=YYYY-MM-DD
func (h *Handlers) HandleLookup(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_date"})
		return
	}
	tbl, ok := h.table(c)
	if !ok {
		return
	}

	values, err := tbl.Lookup(date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LookupResponse{
		Target: tbl.Target(),
		Date:   timedataset.MonthEnd(date).Format(time.DateOnly),
		Values: values,
	})
}

// HandleChart handles GET /forecast/:target/chart
func (h *Handlers) HandleChart(c *gin.Context) {
	tbl, ok := h.table(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := tbl.Plot(&buf); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// HandleInvalidate handles DELETE /forecast/:target/cache
func (h *Handlers) HandleInvalidate(c *gin.Context) {
	tgt, err := target.Parse(c.Param("target"))
	if err != nil {
		writeError(c, err)
		return
	}
	h.f.Invalidate(tgt)
	slog.Info("invalidated forecast", "target", tgt)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) table(c *gin.Context) (*forecaster.Table, bool) {
	tgt, err := target.Parse(c.Param("target"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	tbl, err := h.f.GetForecast(c.Request.Context(), tgt)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return tbl, true
}

var errMissingDate = errors.New("date query parameter is required")

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissingDate
	}
	for _, layout := range []string{time.DateOnly, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("date must be formatted as YYYY-MM-DD or YYYY-MM")
}

// writeError maps forecast errors onto status codes
func writeError(c *gin.Context, err error) {
	var lookupErr *forecaster.LookupError
	switch {
	case errors.Is(err, target.ErrUnknownTarget):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "unknown_target"})
	case errors.As(err, &lookupErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "date_out_of_range"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "canceled"})
	case errors.Is(err, forecaster.ErrLoad):
		slog.Error("forecast load failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "load_failed"})
	case errors.Is(err, forecaster.ErrPrediction):
		slog.Error("forecast prediction failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "prediction_failed"})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
