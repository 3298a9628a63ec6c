package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/kiosk/app/services"
	"tavolo/internal/kiosk/domain/dto"
	"tavolo/internal/lifecycle"
	"tavolo/internal/xpkg/logger"
)

type KioskHandler struct {
	kioskService *services.KioskService
	mylog        logger.Logger
}

func NewKioskHandler(kioskService *services.KioskService, mylog logger.Logger) *KioskHandler {
	return &KioskHandler{
		kioskService: kioskService,
		mylog:        mylog,
	}
}

func orderView(order lifecycle.KioskOrder) dto.OrderView {
	view := dto.OrderView{
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		OrderType:   string(order.OrderType),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	}
	if order.CompletedAt != nil {
		view.CompletedAt = order.CompletedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func (kh *KioskHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var order dto.KioskOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			kh.mylog.Action("parse_failed").Error("Failed to parse kiosk order", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		newOrder, err := kh.kioskService.Create(ctx, order)
		if err != nil {
			if errors.Is(err, core.ErrUnknownType) || errors.Is(err, core.ErrFieldIsEmpty) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to add kiosk order"))
			return
		}

		jsonResponse(w, http.StatusCreated, dto.KioskOrderResponse{
			OrderNumber: newOrder.OrderNumber,
			Status:      string(newOrder.Status),
			TotalAmount: newOrder.TotalAmount,
		})
	}
}

func (kh *KioskHandler) ConfirmPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kh.mutate(w, r, func(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
			return kh.kioskService.ConfirmPayment(ctx, orderNumber, r.Header.Get("X-Cashier"))
		})
	}
}

func (kh *KioskHandler) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kh.mutate(w, r, func(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
			return kh.kioskService.Complete(ctx, orderNumber)
		})
	}
}

func (kh *KioskHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		kh.mutate(w, r, func(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
			return kh.kioskService.Cancel(ctx, orderNumber, r.Header.Get("X-Cashier"), req.Reason, req.Notes)
		})
	}
}

func (kh *KioskHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (lifecycle.KioskOrder, error)) {
	orderNumber := r.PathValue("order_number")

	ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
	defer cancel()

	order, err := op(ctx, orderNumber)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrOrderNotFound):
			jsonError(w, http.StatusNotFound, core.ErrOrderNotFound)
		case errors.Is(err, lifecycle.ErrInvalidStatus),
			errors.Is(err, lifecycle.ErrInvalidTransition),
			errors.Is(err, lifecycle.ErrTerminalOrder),
			errors.Is(err, lifecycle.ErrCancellationReason):
			jsonError(w, http.StatusUnprocessableEntity, err)
		default:
			jsonError(w, http.StatusInternalServerError, err)
		}
		return
	}
	jsonResponse(w, http.StatusOK, orderView(order))
}

func (kh *KioskHandler) ListOpen() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := kh.kioskService.ListOpen(ctx)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err)
			return
		}

		views := make([]dto.OrderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, orderView(order))
		}
		jsonResponse(w, http.StatusOK, views)
	}
}
