package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// ConnectionService manages consumer-supplier connections: the link a
// consumer needs before placing orders with a supplier under a company
type ConnectionService struct {
	db *gorm.DB
}

// NewConnectionService creates a new connection service
func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

// Connect establishes an active connection between the acting consumer and
// the (supplier, company) pair. The supplier must hold an approved
// relationship with the company. Reconnecting an existing inactive
// connection reactivates it instead of creating a duplicate
func (s *ConnectionService) Connect(actor models.Actor, req *models.ConnectRequest) (*models.ConsumerSupplierConnection, error) {
	if !actor.IsConsumer() {
		return nil, models.ErrUnauthorized
	}
	if req.SupplierID == "" || req.CompanyProviderID == "" {
		return nil, models.Validationf("supplierId and companyProviderId are required")
	}

	var approved int64
	err := s.db.Model(&models.SupplierCompanyRelationship{}).
		Where("supplier_id = ? AND company_provider_id = ? AND status = ?",
			req.SupplierID, req.CompanyProviderID, models.RelationshipApproved).
		Count(&approved).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if approved == 0 {
		return nil, models.ErrSupplierNotApproved
	}

	var existing models.ConsumerSupplierConnection
	err = s.db.First(&existing,
		"consumer_id = ? AND supplier_id = ? AND company_provider_id = ?",
		actor.UserID, req.SupplierID, req.CompanyProviderID).Error
	if err == nil {
		if existing.Status == models.ConnectionActive {
			return &existing, nil
		}
		return s.setStatus(actor, existing.ConnectionID, models.ConnectionActive)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.WrapStorage(err)
	}

	connection := models.ConsumerSupplierConnection{
		ConnectionID: "con_" + uuid.New().String(),
		ConsumerID:   actor.UserID,
		SupplierID:   req.SupplierID,
		CompanyID:    req.CompanyProviderID,
		Status:       models.ConnectionActive,
	}
	if err := s.db.Create(&connection).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Consumer connected to supplier",
		"connectionId", connection.ConnectionID,
		"consumerId", actor.UserID,
		"supplierId", req.SupplierID,
		"companyId", req.CompanyProviderID)
	return &connection, nil
}

// Disconnect marks the connection inactive. Orders already placed keep
// their history; new orders for the pair are blocked
func (s *ConnectionService) Disconnect(actor models.Actor, connectionID string) (*models.ConsumerSupplierConnection, error) {
	return s.setStatus(actor, connectionID, models.ConnectionInactive)
}

// Reconnect reactivates an inactive connection
func (s *ConnectionService) Reconnect(actor models.Actor, connectionID string) (*models.ConsumerSupplierConnection, error) {
	return s.setStatus(actor, connectionID, models.ConnectionActive)
}

func (s *ConnectionService) setStatus(actor models.Actor, connectionID string, status models.ConnectionStatus) (*models.ConsumerSupplierConnection, error) {
	if !actor.IsConsumer() {
		return nil, models.ErrUnauthorized
	}

	var connection models.ConsumerSupplierConnection
	err := s.db.First(&connection, "connection_id = ?", connectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if connection.ConsumerID != actor.UserID {
		return nil, models.ErrForbidden
	}

	if connection.Status != status {
		err = s.db.Model(&models.ConsumerSupplierConnection{}).
			Where("connection_id = ?", connectionID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now().UTC(),
			}).Error
		if err != nil {
			return nil, models.WrapStorage(err)
		}
		connection.Status = status
		slog.Info("Connection status changed", "connectionId", connectionID, "status", status)
	}
	return &connection, nil
}

// ListForConsumer retrieves the acting consumer's connections with supplier
// and company details, newest first
func (s *ConnectionService) ListForConsumer(actor models.Actor) ([]models.ConsumerSupplierConnection, error) {
	if !actor.IsConsumer() {
		return nil, models.ErrUnauthorized
	}
	var connections []models.ConsumerSupplierConnection
	err := s.db.Preload("Supplier").Preload("CompanyProvider").
		Where("consumer_id = ?", actor.UserID).
		Order("created_at DESC").
		Find(&connections).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return connections, nil
}

// ListConsumersForSupplier retrieves the active connections pointing at the
// acting supplier: its consumer roster
func (s *ConnectionService) ListConsumersForSupplier(actor models.Actor) ([]models.ConsumerSupplierConnection, error) {
	if !actor.IsSupplier() || actor.SupplierID == "" {
		return nil, models.ErrUnauthorized
	}
	var connections []models.ConsumerSupplierConnection
	err := s.db.Where("supplier_id = ? AND status = ?", actor.SupplierID, models.ConnectionActive).
		Order("created_at DESC").
		Find(&connections).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return connections, nil
}
