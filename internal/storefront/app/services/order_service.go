package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tavolo/internal/ban"
	"tavolo/internal/lifecycle"
	"tavolo/internal/storefront/app/core"
	"tavolo/internal/storefront/domain/dto"
	"tavolo/internal/xpkg/logger"
)

type OrderService struct {
	orderRepo core.IOrderRepo
	broker    core.IBroker
	mylog     logger.Logger
}

func NewOrderService(orderRepo core.IOrderRepo, broker core.IBroker, mylog logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		broker:    broker,
		mylog:     mylog,
	}
}

// Create runs the ban gate, persists the order and publishes the created
// event. The ban check happens before any write: a banned customer never
// produces a row.
func (os *OrderService) Create(ctx context.Context, order dto.OrderRequest) (lifecycle.Order, error) {
	mylog := os.mylog.Action("create_order")

	if err := os.checkBanGate(ctx, order); err != nil {
		return lifecycle.Order{}, err
	}

	newOrder, err := os.orderRepo.Create(ctx, order)
	if err != nil {
		if errors.Is(err, core.ErrDBConn) {
			mylog.Error("Failed to connect to db", err)
			return lifecycle.Order{}, fmt.Errorf("cannot connect to db: %w", err)
		}
		if errors.Is(err, core.ErrTooManyOrders) {
			mylog.Warn("Too many pending orders, rejecting")
			return lifecycle.Order{}, err
		}
		mylog.Error("Failed to save order record in db", err)
		return lifecycle.Order{}, fmt.Errorf("cannot save order in db: %w", err)
	}

	if err := os.broker.PushCreated(ctx, newOrder); err != nil {
		mylog.Error("Failed to publish created event", err)
		return lifecycle.Order{}, fmt.Errorf("cannot send message to broker: %w", err)
	}

	mylog.Info("Order created successfully", "order_number", newOrder.OrderNumber)
	return newOrder, nil
}

func (os *OrderService) checkBanGate(ctx context.Context, order dto.OrderRequest) error {
	customerID := order.Phone
	if order.UserID != nil && *order.UserID != "" {
		customerID = *order.UserID
	}
	if customerID == "" {
		return nil
	}

	records, err := os.orderRepo.BanHistory(ctx, customerID)
	if err != nil {
		os.mylog.Action("ban_gate_failed").Error("Failed to load ban history", err)
		return fmt.Errorf("cannot check ban status: %w", err)
	}

	if ban.IsBannedAny(records, time.Now()) {
		os.mylog.Action("ban_gate_rejected").Warn("Banned customer tried to order", "customer_id", customerID)
		return core.ErrCustomerBanned
	}
	return nil
}

func (os *OrderService) GetStatus(ctx context.Context, orderNumber string) (lifecycle.Order, error) {
	mylog := os.mylog.Action("get_status")

	order, err := os.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, core.ErrOrderNotFound) {
			mylog.Warn("Order not found", "order_number", orderNumber)
			return lifecycle.Order{}, err
		}
		mylog.Error("Failed to get status from db", err)
		return lifecycle.Order{}, fmt.Errorf("cannot get status: %w", err)
	}
	return order, nil
}

func (os *OrderService) GetHistory(ctx context.Context, orderNumber string) ([]lifecycle.HistoryEntry, error) {
	mylog := os.mylog.Action("get_history")

	history, err := os.orderRepo.GetHistory(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, core.ErrOrderNotFound) {
			mylog.Warn("Order not found", "order_number", orderNumber)
			return nil, err
		}
		mylog.Error("Failed to get history", err)
		return nil, fmt.Errorf("cannot get history: %w", err)
	}
	return history, nil
}

// ValidateOrder validates an order request against the storefront rules.
func (os *OrderService) ValidateOrder(order dto.OrderRequest) error {
	if err := os.validateCustomerName(order.CustomerName); err != nil {
		return fmt.Errorf("invalid customer name: %v", err)
	}
	if err := os.validateOrderType(order); err != nil {
		return fmt.Errorf("invalid order type: %v", err)
	}
	if err := os.validateOrderItems(order.Items); err != nil {
		return fmt.Errorf("invalid order items: %v", err)
	}
	return nil
}

func (os *OrderService) validateCustomerName(customerName string) error {
	if customerName == "" {
		return core.ErrFieldIsEmpty
	}

	customerNameLen := len(customerName)
	if customerNameLen < core.MinCustomerNameLen || customerNameLen > core.MaxCustomerNameLen {
		return fmt.Errorf("must be in range [%d, %d]", core.MinCustomerNameLen, core.MaxCustomerNameLen)
	}

	for _, r := range customerName {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || strings.ContainsRune(core.AllowedSpecialCharacters, r) {
			continue
		}
		return fmt.Errorf("must not contain special characters other than `%s`: %s", core.AllowedSpecialCharacters, customerName)
	}
	return nil
}

func (os *OrderService) validateOrderType(order dto.OrderRequest) error {
	if order.OrderType == "" {
		return core.ErrFieldIsEmpty
	}
	orderType, err := lifecycle.ParseOrderType(order.OrderType)
	if err != nil {
		return err
	}

	if orderType == lifecycle.TypeDelivery {
		if order.DeliveryAddress == "" {
			return fmt.Errorf("delivery address: %w", core.ErrFieldIsEmpty)
		}
		addrLen := len(order.DeliveryAddress)
		if addrLen < core.MinDeliveryAddressLen || addrLen > core.MaxDeliveryAddressLen {
			return fmt.Errorf("address length: %d, must be in range [%d, %d]", addrLen, core.MinDeliveryAddressLen, core.MaxDeliveryAddressLen)
		}
	}
	return nil
}

func (os *OrderService) validateOrderItems(items []dto.Item) error {
	itemsLen := len(items)
	if itemsLen == 0 {
		return core.ErrFieldIsEmpty
	}
	if itemsLen < core.MinItems || itemsLen > core.MaxItems {
		return fmt.Errorf("amount of items: %d, must be in range [%d, %d]", itemsLen, core.MinItems, core.MaxItems)
	}

	for i, item := range items {
		itemNameLen := len(item.Name)
		if itemNameLen < core.MinItemNameLen || itemNameLen > core.MaxItemNameLen {
			return fmt.Errorf("item %d: name len: %d, must be in range [%d, %d]", i+1, itemNameLen, core.MinItemNameLen, core.MaxItemNameLen)
		}
		if item.Quantity < core.MinItemQuantity || item.Quantity > core.MaxItemQuantity {
			return fmt.Errorf("item %d: quantity: %d, must be in range [%d, %d]", i+1, item.Quantity, core.MinItemQuantity, core.MaxItemQuantity)
		}
		if item.Price < core.MinItemPrice || item.Price > core.MaxItemPrice {
			return fmt.Errorf("item %d: item price: %f, must be in range [%f, %f]", i+1, item.Price, core.MinItemPrice, core.MaxItemPrice)
		}
	}
	return nil
}
