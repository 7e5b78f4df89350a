package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// RelationshipService manages supplier-company relationships: the approval
// link that gates catalog access and order placement
type RelationshipService struct {
	db *gorm.DB
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(db *gorm.DB) *RelationshipService {
	return &RelationshipService{db: db}
}

// ApplyToCompany creates a pending application from the acting supplier to
// the given company. A second application is rejected while one is already
// pending or approved for the same pair
func (s *RelationshipService) ApplyToCompany(actor models.Actor, companyID string) (*models.SupplierCompanyRelationship, error) {
	if !actor.IsSupplier() || actor.SupplierID == "" {
		return nil, models.ErrUnauthorized
	}
	if companyID == "" {
		return nil, models.Validationf("companyProviderId is required")
	}

	var company models.CompanyProvider
	err := s.db.First(&company, "company_id = ?", companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}

	var existing int64
	err = s.db.Model(&models.SupplierCompanyRelationship{}).
		Where("supplier_id = ? AND company_provider_id = ? AND status IN ?",
			actor.SupplierID, companyID,
			[]models.RelationshipStatus{models.RelationshipPending, models.RelationshipApproved}).
		Count(&existing).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if existing > 0 {
		return nil, models.ErrDuplicateApplication
	}

	relationship := models.SupplierCompanyRelationship{
		RelationshipID: "rel_" + uuid.New().String(),
		SupplierID:     actor.SupplierID,
		CompanyID:      companyID,
		Status:         models.RelationshipPending,
	}
	if err := s.db.Create(&relationship).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Supplier applied to company",
		"relationshipId", relationship.RelationshipID,
		"supplierId", actor.SupplierID,
		"companyId", companyID)
	return &relationship, nil
}

// Approve transitions a pending application to approved. Only the owning
// company provider may call it; a rejected or suspended application cannot
// be re-approved directly
func (s *RelationshipService) Approve(actor models.Actor, relationshipID string) (*models.SupplierCompanyRelationship, error) {
	return s.decide(actor, relationshipID, models.RelationshipApproved)
}

// Reject transitions a pending application to rejected. Only the owning
// company provider may call it
func (s *RelationshipService) Reject(actor models.Actor, relationshipID string) (*models.SupplierCompanyRelationship, error) {
	return s.decide(actor, relationshipID, models.RelationshipRejected)
}

func (s *RelationshipService) decide(actor models.Actor, relationshipID string, decision models.RelationshipStatus) (*models.SupplierCompanyRelationship, error) {
	relationship, err := s.getRelationship(relationshipID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCompanyProvider() || actor.CompanyID == "" || relationship.CompanyID != actor.CompanyID {
		return nil, models.ErrUnauthorized
	}
	if relationship.Status != models.RelationshipPending {
		return nil, models.ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     decision,
		"updated_at": time.Now().UTC(),
	}
	if decision == models.RelationshipApproved {
		now := time.Now().UTC()
		updates["approved_at"] = now
		updates["approved_by"] = actor.UserID
	}

	result := s.db.Model(&models.SupplierCompanyRelationship{}).
		Where("relationship_id = ? AND status = ?", relationshipID, models.RelationshipPending).
		Updates(updates)
	if result.Error != nil {
		return nil, models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrInvalidTransition
	}

	slog.Info("Supplier application decided",
		"relationshipId", relationshipID,
		"companyId", actor.CompanyID,
		"decision", decision)
	return s.getRelationship(relationshipID)
}

// Suspend moves an approved relationship to suspended, cutting off new
// orders for the pair without deleting the history
func (s *RelationshipService) Suspend(actor models.Actor, relationshipID string) (*models.SupplierCompanyRelationship, error) {
	relationship, err := s.getRelationship(relationshipID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCompanyProvider() || actor.CompanyID == "" || relationship.CompanyID != actor.CompanyID {
		return nil, models.ErrUnauthorized
	}
	if relationship.Status != models.RelationshipApproved {
		return nil, models.ErrInvalidTransition
	}

	result := s.db.Model(&models.SupplierCompanyRelationship{}).
		Where("relationship_id = ? AND status = ?", relationshipID, models.RelationshipApproved).
		Updates(map[string]interface{}{
			"status":     models.RelationshipSuspended,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrInvalidTransition
	}

	slog.Info("Supplier relationship suspended", "relationshipId", relationshipID, "companyId", actor.CompanyID)
	return s.getRelationship(relationshipID)
}

// ListForSupplier retrieves the acting supplier's applications, newest first
func (s *RelationshipService) ListForSupplier(actor models.Actor) ([]models.SupplierCompanyRelationship, error) {
	if !actor.IsSupplier() || actor.SupplierID == "" {
		return nil, models.ErrUnauthorized
	}
	var relationships []models.SupplierCompanyRelationship
	err := s.db.Preload("CompanyProvider").
		Where("supplier_id = ?", actor.SupplierID).
		Order("created_at DESC").
		Find(&relationships).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return relationships, nil
}

// ListForCompany retrieves the applications addressed to the acting company
// provider, newest first
func (s *RelationshipService) ListForCompany(actor models.Actor) ([]models.SupplierCompanyRelationship, error) {
	if !actor.IsCompanyProvider() || actor.CompanyID == "" {
		return nil, models.ErrUnauthorized
	}
	var relationships []models.SupplierCompanyRelationship
	err := s.db.Preload("Supplier").
		Where("company_provider_id = ?", actor.CompanyID).
		Order("created_at DESC").
		Find(&relationships).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return relationships, nil
}

func (s *RelationshipService) getRelationship(relationshipID string) (*models.SupplierCompanyRelationship, error) {
	var relationship models.SupplierCompanyRelationship
	err := s.db.First(&relationship, "relationship_id = ?", relationshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return &relationship, nil
}
