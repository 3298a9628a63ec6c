package services

import (
	"context"
	"fmt"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/domain/dto"
	"tavolo/internal/admin/domain/models"
	"tavolo/internal/xpkg/logger"

	"github.com/google/uuid"
)

type MenuService struct {
	menuRepo core.IMenuRepo
	mylog    logger.Logger
}

func NewMenuService(menuRepo core.IMenuRepo, mylog logger.Logger) *MenuService {
	return &MenuService{menuRepo: menuRepo, mylog: mylog}
}

func (ms *MenuService) ListSizes(ctx context.Context) ([]models.SizeOption, error) {
	return ms.menuRepo.ListSizes(ctx)
}

func (ms *MenuService) CreateSize(ctx context.Context, req dto.SizeRequest) (models.SizeOption, error) {
	if req.Name == "" {
		return models.SizeOption{}, fmt.Errorf("%w: name", core.ErrFieldIsEmpty)
	}
	if req.PriceMultiplier <= 0 {
		return models.SizeOption{}, core.ErrBadMultiplier
	}
	if req.SortOrder < 0 {
		return models.SizeOption{}, fmt.Errorf("sort_order must be non-negative: %d", req.SortOrder)
	}

	size := models.SizeOption{
		ID:              uuid.NewString(),
		Name:            req.Name,
		PriceMultiplier: req.PriceMultiplier,
		IsActive:        true,
		SortOrder:       req.SortOrder,
	}
	created, err := ms.menuRepo.CreateSize(ctx, size)
	if err != nil {
		return models.SizeOption{}, err
	}

	ms.mylog.Action("create_size").Info("Size option created", "size_id", created.ID, "name", created.Name)
	return created, nil
}

// PatchSize applies only the fields present in the patch to an existing
// size option.
func (ms *MenuService) PatchSize(ctx context.Context, id string, patch dto.SizePatch) (models.SizeOption, error) {
	size, err := ms.menuRepo.GetSize(ctx, id)
	if err != nil {
		return models.SizeOption{}, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return models.SizeOption{}, fmt.Errorf("%w: name", core.ErrFieldIsEmpty)
		}
		size.Name = *patch.Name
	}
	if patch.PriceMultiplier != nil {
		if *patch.PriceMultiplier <= 0 {
			return models.SizeOption{}, core.ErrBadMultiplier
		}
		size.PriceMultiplier = *patch.PriceMultiplier
	}
	if patch.IsActive != nil {
		size.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		if *patch.SortOrder < 0 {
			return models.SizeOption{}, fmt.Errorf("sort_order must be non-negative: %d", *patch.SortOrder)
		}
		size.SortOrder = *patch.SortOrder
	}

	if err := ms.menuRepo.UpdateSize(ctx, size); err != nil {
		return models.SizeOption{}, err
	}
	return size, nil
}

// LinkItemSize attaches a size option to a food item, upserting the link.
// A custom multiplier, when given, overrides the size option's own.
func (ms *MenuService) LinkItemSize(ctx context.Context, foodItem string, req dto.ItemSizeRequest) (models.ItemSize, error) {
	if foodItem == "" {
		return models.ItemSize{}, fmt.Errorf("%w: food_item", core.ErrFieldIsEmpty)
	}
	if req.CustomPriceMultiplier != nil && *req.CustomPriceMultiplier <= 0 {
		return models.ItemSize{}, core.ErrBadMultiplier
	}

	size, err := ms.menuRepo.GetSize(ctx, req.SizeOptionID)
	if err != nil {
		return models.ItemSize{}, err
	}

	link := models.ItemSize{
		ID:                    uuid.NewString(),
		FoodItem:              foodItem,
		SizeOptionID:          size.ID,
		SizeName:              size.Name,
		IsAvailable:           req.IsAvailable,
		CustomPriceMultiplier: req.CustomPriceMultiplier,
	}
	return ms.menuRepo.LinkItemSize(ctx, link)
}

func (ms *MenuService) ListItemSizes(ctx context.Context, foodItem string) ([]models.ItemSize, error) {
	return ms.menuRepo.ListItemSizes(ctx, foodItem)
}
