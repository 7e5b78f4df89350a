package services

import (
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// Row-level visibility rules for orders, enforced at the data-access
// boundary. Every order query in this package goes through OrderScope, so
// no handler or UI conditional can widen what a role may see.
//
// Consumers see their own orders, suppliers the orders they fulfil, company
// providers the orders placed under their brand (read-only oversight).

// OrderScope narrows an order query to the rows the actor may read.
// Returns models.ErrForbidden for roles with no order visibility
func OrderScope(actor models.Actor) (func(*gorm.DB) *gorm.DB, error) {
	switch actor.Role {
	case models.RoleConsumer:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("consumer_id = ?", actor.UserID)
		}, nil
	case models.RoleSupplier:
		if actor.SupplierID == "" {
			return nil, models.ErrForbidden
		}
		supplierID := actor.SupplierID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("supplier_id = ?", supplierID)
		}, nil
	case models.RoleCompanyProvider:
		if actor.CompanyID == "" {
			return nil, models.ErrForbidden
		}
		companyID := actor.CompanyID
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("company_provider_id = ?", companyID)
		}, nil
	}
	return nil, models.ErrForbidden
}

// CanViewOrder decides read access for a single order row
func CanViewOrder(actor models.Actor, order *models.Order) error {
	switch actor.Role {
	case models.RoleConsumer:
		if order.ConsumerID == actor.UserID {
			return nil
		}
	case models.RoleSupplier:
		if actor.SupplierID != "" && order.SupplierID == actor.SupplierID {
			return nil
		}
	case models.RoleCompanyProvider:
		if actor.CompanyID != "" && order.CompanyID == actor.CompanyID {
			return nil
		}
	}
	return models.ErrForbidden
}

// CanAdvanceOrder decides whether the actor may progress the order.
// Only the owning supplier has status authority; company providers observe
// but never mutate
func CanAdvanceOrder(actor models.Actor, order *models.Order) error {
	if !actor.IsSupplier() || actor.SupplierID == "" {
		return models.ErrUnauthorized
	}
	if order.SupplierID != actor.SupplierID {
		return models.ErrUnauthorized
	}
	return nil
}

// CanCancelOrder decides whether the actor may cancel the order.
// Only the owning consumer may cancel
func CanCancelOrder(actor models.Actor, order *models.Order) error {
	if !actor.IsConsumer() {
		return models.ErrUnauthorized
	}
	if order.ConsumerID != actor.UserID {
		return models.ErrUnauthorized
	}
	return nil
}

// CanCreateOrder decides whether the actor may place orders at all
func CanCreateOrder(actor models.Actor) error {
	if !actor.IsConsumer() {
		return models.ErrUnauthorized
	}
	return nil
}
