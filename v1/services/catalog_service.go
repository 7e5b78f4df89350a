package services

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// CatalogService manages company-owned products. Ownership is part of every
// write predicate, so a company can never touch another company's catalog
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateProduct adds a product to the acting company provider's catalog
func (s *CatalogService) CreateProduct(actor models.Actor, req *models.CreateProductRequest) (*models.Product, error) {
	if !actor.IsCompanyProvider() || actor.CompanyID == "" {
		return nil, models.ErrUnauthorized
	}
	if req.Name == "" {
		return nil, models.Validationf("name is required")
	}
	if len(req.Name) > models.MaxNameLength {
		return nil, models.Validationf("name exceeds %d characters", models.MaxNameLength)
	}
	if len(req.Description) > models.MaxDescriptionLength {
		return nil, models.Validationf("description exceeds %d characters", models.MaxDescriptionLength)
	}
	if req.Price <= 0 {
		return nil, models.Validationf("price must be positive")
	}
	if req.WeightGrams <= 0 {
		return nil, models.Validationf("weightGrams must be positive")
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	product := models.Product{
		ProductID:   "prod_" + uuid.New().String(),
		CompanyID:   actor.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		RoastLevel:  req.RoastLevel,
		Origin:      req.Origin,
		TastingNote: models.StringSlice(req.TastingNotes),
		WeightGrams: req.WeightGrams,
		IsAvailable: available,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Product created", "productId", product.ProductID, "companyId", actor.CompanyID, "name", product.Name)
	return &product, nil
}

// UpdateProduct updates a product the acting company provider owns
func (s *CatalogService) UpdateProduct(actor models.Actor, productID string, req *models.UpdateProductRequest) (*models.Product, error) {
	if !actor.IsCompanyProvider() || actor.CompanyID == "" {
		return nil, models.ErrUnauthorized
	}

	product, err := s.getOwnedProduct(actor, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, models.Validationf("price must be positive")
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.RoastLevel != nil {
		product.RoastLevel = *req.RoastLevel
	}
	if req.Origin != nil {
		product.Origin = *req.Origin
	}
	if req.TastingNotes != nil {
		product.TastingNote = models.StringSlice(req.TastingNotes)
	}
	if req.WeightGrams != nil {
		if *req.WeightGrams <= 0 {
			return nil, models.Validationf("weightGrams must be positive")
		}
		product.WeightGrams = *req.WeightGrams
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, models.WrapStorage(err)
	}
	return product, nil
}

// DeleteProduct removes a product the acting company provider owns.
// Existing order items keep their frozen price and product reference
func (s *CatalogService) DeleteProduct(actor models.Actor, productID string) error {
	if !actor.IsCompanyProvider() || actor.CompanyID == "" {
		return models.ErrUnauthorized
	}

	result := s.db.Where("product_id = ? AND company_provider_id = ?", productID, actor.CompanyID).
		Delete(&models.Product{})
	if result.Error != nil {
		return models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	slog.Info("Product deleted", "productId", productID, "companyId", actor.CompanyID)
	return nil
}

// ListOwnProducts retrieves the acting company provider's full catalog
func (s *CatalogService) ListOwnProducts(actor models.Actor) ([]models.Product, error) {
	if !actor.IsCompanyProvider() || actor.CompanyID == "" {
		return nil, models.ErrUnauthorized
	}
	var products []models.Product
	err := s.db.Where("company_provider_id = ?", actor.CompanyID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return products, nil
}

// ListAvailableProducts retrieves a company's available products, the view
// consumers browse when ordering
func (s *CatalogService) ListAvailableProducts(companyID string) ([]models.Product, error) {
	if companyID == "" {
		return nil, models.Validationf("companyProviderId is required")
	}
	var products []models.Product
	err := s.db.Where("company_provider_id = ? AND is_available = ?", companyID, true).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return products, nil
}

func (s *CatalogService) getOwnedProduct(actor models.Actor, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, "product_id = ? AND company_provider_id = ?", productID, actor.CompanyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return &product, nil
}
