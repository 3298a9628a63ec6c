package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/app/services"
	"tavolo/internal/admin/domain/dto"
	"tavolo/internal/lifecycle"
	"tavolo/internal/xpkg/auth"
	"tavolo/internal/xpkg/logger"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

func actor(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

func (oh *OrderHandler) Advance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oh.mutate(w, r, func(ctx context.Context, orderNumber string) (lifecycle.Order, error) {
			return oh.orderService.Advance(ctx, orderNumber, actor(r))
		})
	}
}

func (oh *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		oh.mutate(w, r, func(ctx context.Context, orderNumber string) (lifecycle.Order, error) {
			return oh.orderService.Cancel(ctx, orderNumber, req.Reason, req.Notes, actor(r))
		})
	}
}

// mutate runs one status mutation and maps the error taxonomy onto HTTP
// statuses: unknown order 404, illegal transition 422.
func (oh *OrderHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (lifecycle.Order, error)) {
	orderNumber := r.PathValue("order_number")

	ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
	defer cancel()

	order, opErr := op(ctx, orderNumber)
	if opErr != nil {
		switch {
		case errors.Is(opErr, core.ErrOrderNotFound):
			jsonError(w, http.StatusNotFound, opErr)
		case errors.Is(opErr, lifecycle.ErrInvalidTransition),
			errors.Is(opErr, lifecycle.ErrTerminalOrder),
			errors.Is(opErr, lifecycle.ErrInvalidStatus),
			errors.Is(opErr, lifecycle.ErrCancellationReason):
			jsonError(w, http.StatusUnprocessableEntity, opErr)
		default:
			oh.mylog.Action("order_mutation_failed").Error("Failed to mutate order", opErr, "order_number", orderNumber)
			jsonError(w, http.StatusInternalServerError, errors.New("failed to update order"))
		}
		return
	}

	jsonResponse(w, http.StatusOK, order)
}

func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := oh.orderService.List(ctx, filter)
		if err != nil {
			if errors.Is(err, core.ErrUnknownSource) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to list orders"))
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"orders": orders, "count": len(orders)})
	}
}

func parseFilter(r *http.Request) (core.OrderFilter, error) {
	filter := core.OrderFilter{
		Status: r.URL.Query().Get("status"),
		Source: r.URL.Query().Get("source"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return core.OrderFilter{}, errors.New("from must be RFC 3339")
		}
		filter.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return core.OrderFilter{}, errors.New("to must be RFC 3339")
		}
		filter.To = t
	}
	return filter, nil
}

func (oh *OrderHandler) StatsToday() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		stats, err := oh.orderService.StatsToday(ctx)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, errors.New("failed to compute stats"))
			return
		}
		jsonResponse(w, http.StatusOK, stats)
	}
}
