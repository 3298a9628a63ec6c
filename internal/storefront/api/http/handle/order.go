package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tavolo/internal/storefront/app/core"
	"tavolo/internal/storefront/app/services"
	"tavolo/internal/storefront/domain/dto"
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

func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var order dto.OrderRequest

		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			oh.mylog.Action("parse_failed").Error("Failed to parse order", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		if err := oh.orderService.ValidateOrder(order); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		newOrder, err := oh.orderService.Create(ctx, order)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrCustomerBanned):
				jsonError(w, http.StatusForbidden, err)
			case errors.Is(err, core.ErrTooManyOrders):
				jsonError(w, http.StatusTooManyRequests, err)
			case errors.Is(err, core.ErrDBConn):
				jsonError(w, http.StatusInternalServerError, err)
			default:
				jsonError(w, http.StatusInternalServerError, errors.New("failed to add order"))
			}
			return
		}

		resp := dto.OrderResponse{
			OrderNumber: newOrder.OrderNumber,
			Status:      string(newOrder.Status),
			TotalAmount: newOrder.TotalAmount,
		}
		jsonResponse(w, http.StatusCreated, resp)
	}
}

func (oh *OrderHandler) GetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNum := r.PathValue("order_number")

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := oh.orderService.GetStatus(ctx, orderNum)
		if err != nil {
			if errors.Is(err, core.ErrOrderNotFound) {
				// distinct condition: the confirmation page shows a
				// dedicated "order not found" screen with a retry hint
				jsonError(w, http.StatusNotFound, core.ErrOrderNotFound)
				return
			}
			jsonError(w, http.StatusInternalServerError, err)
			return
		}

		resp := dto.StatusResponse{
			OrderNumber:   order.OrderNumber,
			CurrentStatus: string(order.Status),
			OrderType:     string(order.OrderType),
			UpdatedAt:     order.UpdatedAt.UTC().Format(time.RFC3339),
		}
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (oh *OrderHandler) GetHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNum := r.PathValue("order_number")

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		entries, err := oh.orderService.GetHistory(ctx, orderNum)
		if err != nil {
			if errors.Is(err, core.ErrOrderNotFound) {
				jsonError(w, http.StatusNotFound, core.ErrOrderNotFound)
				return
			}
			jsonError(w, http.StatusInternalServerError, err)
			return
		}

		var history []dto.HistoryRow
		for _, entry := range entries {
			row := dto.HistoryRow{
				NewStatus: entry.NewStatus,
				Note:      entry.Note,
				Timestamp: entry.ChangedAt.UTC().Format(time.RFC3339),
			}
			if entry.OldStatus != nil {
				row.OldStatus = *entry.OldStatus
			}
			history = append(history, row)
		}
		jsonResponse(w, http.StatusOK, history)
	}
}
