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
	"tavolo/internal/ban"
	"tavolo/internal/xpkg/logger"
)

type BanHandler struct {
	banService *services.BanService
	mylog      logger.Logger
}

func NewBanHandler(banService *services.BanService, mylog logger.Logger) *BanHandler {
	return &BanHandler{banService: banService, mylog: mylog}
}

func (bh *BanHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.BanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		rec, err := bh.banService.Create(ctx, req, actor(r))
		if err != nil {
			if errors.Is(err, ban.ErrUnknownReason) ||
				errors.Is(err, ban.ErrCustomReasonNeeded) ||
				errors.Is(err, core.ErrFieldIsEmpty) ||
				errors.Is(err, core.ErrBadTimeWindow) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to create ban"))
			return
		}
		jsonResponse(w, http.StatusCreated, rec)
	}
}

func (bh *BanHandler) Lift() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		rec, err := bh.banService.Lift(ctx, r.PathValue("id"))
		if err != nil {
			if errors.Is(err, core.ErrBanNotFound) {
				jsonError(w, http.StatusNotFound, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to lift ban"))
			return
		}
		jsonResponse(w, http.StatusOK, rec)
	}
}

func (bh *BanHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		records, banned, err := bh.banService.History(ctx, r.PathValue("id"))
		if err != nil {
			jsonError(w, http.StatusInternalServerError, errors.New("failed to fetch ban history"))
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"customer_id": r.PathValue("id"),
			"banned":      banned,
			"bans":        records,
		})
	}
}
