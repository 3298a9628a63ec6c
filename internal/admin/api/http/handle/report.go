package handle

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/app/services"
	"tavolo/internal/xpkg/logger"
)

type ReportHandler struct {
	reportService *services.ReportService
	mylog         logger.Logger
}

func NewReportHandler(reportService *services.ReportService, mylog logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, mylog: mylog}
}

func reportError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrBadTimeWindow) || errors.Is(err, core.ErrUnknownFormat) {
		jsonError(w, http.StatusBadRequest, err)
		return
	}
	jsonError(w, http.StatusInternalServerError, errors.New("failed to build report"))
}

func window(r *http.Request) (string, string) {
	return r.URL.Query().Get("from"), r.URL.Query().Get("to")
}

func (rh *ReportHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		from, to := window(r)
		summary, err := rh.reportService.Summary(ctx, from, to)
		if err != nil {
			reportError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, summary)
	}
}

func (rh *ReportHandler) TopItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				jsonError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
				return
			}
			limit = n
		}

		from, to := window(r)
		items, err := rh.reportService.TopItems(ctx, from, to, limit)
		if err != nil {
			reportError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func (rh *ReportHandler) Daily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		from, to := window(r)
		series, err := rh.reportService.Daily(ctx, from, to)
		if err != nil {
			reportError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"days": series})
	}
}

func (rh *ReportHandler) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		from, to := window(r)
		payload, contentType, err := rh.reportService.Export(ctx, from, to, r.URL.Query().Get("format"))
		if err != nil {
			reportError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(payload))
	}
}
