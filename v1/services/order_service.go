package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// OrderService owns the order lifecycle. All status movement goes through
// the transition table in models; creation is the consumer's, forward
// progression the supplier's, cancellation the consumer's while pending
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder validates the consumer's standing with the (supplier, company)
// pair and persists the order and its items as a single atomic unit in
// status pending. Prices are captured from the live catalog at call time
// and frozen on each item
func (s *OrderService) CreateOrder(actor models.Actor, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := CanCreateOrder(actor); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}
	if req.SupplierID == "" || req.CompanyProviderID == "" {
		return nil, models.Validationf("supplierId and companyProviderId are required")
	}
	if req.ShippingAddressID == "" {
		return nil, models.ErrInvalidAddress
	}
	if req.Notes != nil && len(*req.Notes) > models.MaxNotesLength {
		return nil, models.Validationf("notes exceed %d characters", models.MaxNotesLength)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, models.Validationf("quantity must be positive for product %s", item.ProductID)
		}
	}

	// Active connection for this (supplier, company) pair
	var connCount int64
	err := s.db.Model(&models.ConsumerSupplierConnection{}).
		Where("consumer_id = ? AND supplier_id = ? AND company_provider_id = ? AND status = ?",
			actor.UserID, req.SupplierID, req.CompanyProviderID, models.ConnectionActive).
		Count(&connCount).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if connCount == 0 {
		return nil, models.ErrInvalidRelationship
	}

	// The supplier must still be approved by the company at creation time
	var relCount int64
	err = s.db.Model(&models.SupplierCompanyRelationship{}).
		Where("supplier_id = ? AND company_provider_id = ? AND status = ?",
			req.SupplierID, req.CompanyProviderID, models.RelationshipApproved).
		Count(&relCount).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if relCount == 0 {
		return nil, models.ErrSupplierNotApproved
	}

	// Shipping address must belong to the ordering consumer
	var address models.Address
	err = s.db.First(&address, "address_id = ?", req.ShippingAddressID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrInvalidAddress
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if address.UserID != actor.UserID {
		return nil, models.ErrInvalidAddress
	}

	// Capture prices from the catalog at call time
	productIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	var products []models.Product
	err = s.db.Where("product_id IN ?", productIDs).Find(&products).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	productByID := make(map[string]models.Product, len(products))
	for _, p := range products {
		productByID[p.ProductID] = p
	}

	order := models.Order{
		OrderID:           "ord_" + uuid.New().String(),
		ConsumerID:        actor.UserID,
		SupplierID:        req.SupplierID,
		CompanyID:         req.CompanyProviderID,
		Status:            models.OrderPending,
		ShippingAddressID: req.ShippingAddressID,
		Notes:             req.Notes,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := 0.0
	for _, input := range req.Items {
		product, ok := productByID[input.ProductID]
		if !ok {
			return nil, models.Validationf("product %s not found", input.ProductID)
		}
		if product.CompanyID != req.CompanyProviderID {
			return nil, models.Validationf("product %s does not belong to this company", input.ProductID)
		}
		if !product.IsAvailable {
			return nil, models.Validationf("product %s is not available", input.ProductID)
		}
		items = append(items, models.OrderItem{
			OrderItemID:     "oi_" + uuid.New().String(),
			OrderID:         order.OrderID,
			ProductID:       input.ProductID,
			Quantity:        input.Quantity,
			PriceAtPurchase: product.Price,
		})
		total += product.Price * float64(input.Quantity)
	}
	order.TotalAmount = total

	// Order and items are one atomic unit: an order must never exist with
	// zero items
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, models.WrapStorage(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, models.WrapStorage(fmt.Errorf("failed to create order: %w", err))
	}
	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		return nil, models.WrapStorage(fmt.Errorf("failed to create order items: %w", err))
	}
	if err := tx.Commit().Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	order.Items = items
	slog.Info("Order created",
		"orderId", order.OrderID,
		"consumerId", order.ConsumerID,
		"supplierId", order.SupplierID,
		"total", order.TotalAmount,
		"items", len(items))
	return &order, nil
}

// Advance moves the order from the status the caller observed to its unique
// successor. Only the owning supplier may call it; skipping stages and
// moving backward are impossible by construction. The caller's observed
// status drives the conditional update, so a duplicate request carrying the
// same observed status fails instead of advancing a second time
func (s *OrderService) Advance(actor models.Actor, orderID string, from models.OrderStatus) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := CanAdvanceOrder(actor, order); err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, models.ErrTerminalState
	}
	next, ok := from.Next()
	if !ok {
		// The caller's view is stale or nonsensical; the order itself is
		// still live, so this is a transition conflict, not terminality
		return nil, models.ErrInvalidTransition
	}

	result := s.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		// The order left the observed status before this request landed:
		// a duplicate submission or a lost race. Report against the fresh
		// status rather than silently advancing twice
		fresh, err := s.getOrder(orderID)
		if err != nil {
			return nil, err
		}
		if fresh.Status.IsTerminal() {
			return nil, models.ErrTerminalState
		}
		return nil, models.ErrInvalidTransition
	}

	slog.Info("Order advanced", "orderId", orderID, "from", from, "to", next)
	return s.getOrder(orderID)
}

// Cancel moves a pending order to cancelled. Only the owning consumer may
// call it, and only while the order is still pending
func (s *OrderService) Cancel(actor models.Actor, orderID string) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := CanCancelOrder(actor, order); err != nil {
		return nil, err
	}
	if !order.Status.Cancellable() {
		return nil, models.ErrNotCancellable
	}

	result := s.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderPending).
		Updates(map[string]interface{}{
			"status":     models.OrderCancelled,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		// The supplier confirmed it first
		return nil, models.ErrNotCancellable
	}

	slog.Info("Order cancelled", "orderId", orderID, "consumerId", actor.UserID)
	return s.getOrder(orderID)
}

// GetOrder retrieves one order with its items, subject to the visibility
// filter
func (s *OrderService) GetOrder(actor models.Actor, orderID string) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := CanViewOrder(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders retrieves the orders visible to the actor, newest first
func (s *OrderService) ListOrders(actor models.Actor) ([]models.Order, error) {
	scope, err := OrderScope(actor)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = s.db.Scopes(scope).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return orders, nil
}

func (s *OrderService) getOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return &order, nil
}
