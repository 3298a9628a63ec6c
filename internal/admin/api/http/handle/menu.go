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
	"tavolo/internal/xpkg/logger"
)

type MenuHandler struct {
	menuService *services.MenuService
	mylog       logger.Logger
}

func NewMenuHandler(menuService *services.MenuService, mylog logger.Logger) *MenuHandler {
	return &MenuHandler{menuService: menuService, mylog: mylog}
}

func menuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrSizeNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, core.ErrFieldIsEmpty), errors.Is(err, core.ErrBadMultiplier):
		jsonError(w, http.StatusBadRequest, err)
	default:
		jsonError(w, http.StatusInternalServerError, errors.New("menu operation failed"))
	}
}

func (mh *MenuHandler) ListSizes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		sizes, err := mh.menuService.ListSizes(ctx)
		if err != nil {
			menuError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"sizes": sizes})
	}
}

func (mh *MenuHandler) CreateSize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		size, err := mh.menuService.CreateSize(ctx, req)
		if err != nil {
			menuError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, size)
	}
}

func (mh *MenuHandler) PatchSize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch dto.SizePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		size, err := mh.menuService.PatchSize(ctx, r.PathValue("id"), patch)
		if err != nil {
			menuError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, size)
	}
}

func (mh *MenuHandler) LinkItemSize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ItemSizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		link, err := mh.menuService.LinkItemSize(ctx, r.PathValue("item"), req)
		if err != nil {
			menuError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, link)
	}
}

func (mh *MenuHandler) ListItemSizes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		links, err := mh.menuService.ListItemSizes(ctx, r.PathValue("item"))
		if err != nil {
			menuError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"item": r.PathValue("item"), "sizes": links})
	}
}
