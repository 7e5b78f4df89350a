package services

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// DirectoryService manages profiles and the role-owned records behind them:
// the supplier and company provider rows created during onboarding. It also
// resolves the Actor passed into every other service call
type DirectoryService struct {
	db *gorm.DB
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// CreateProfile registers a profile for the authenticated identity. One
// profile per identity; the role tag never changes afterwards
func (s *DirectoryService) CreateProfile(userID, email string, req *models.CreateProfileRequest) (*models.Profile, error) {
	if userID == "" || email == "" {
		return nil, models.ErrUnauthorized
	}
	if req.FullName == "" {
		return nil, models.Validationf("fullName is required")
	}
	if !req.Role.Valid() {
		return nil, models.Validationf("role must be consumer, supplier or company_provider")
	}

	var existing int64
	err := s.db.Model(&models.Profile{}).Where("profile_id = ?", userID).Count(&existing).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if existing > 0 {
		return nil, models.Validationf("profile already exists for this identity")
	}

	profile := models.Profile{
		ProfileID: userID,
		Email:     email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Profile created", "profileId", profile.ProfileID, "role", profile.Role)
	return &profile, nil
}

// GetProfile retrieves a profile by identity
func (s *DirectoryService) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, "profile_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return &profile, nil
}

// UpdateProfile updates the mutable profile fields. The role is not among
// them
func (s *DirectoryService) UpdateProfile(userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, models.WrapStorage(err)
	}
	return profile, nil
}

// OnboardSupplier creates the supplier record owned by a profile with
// role=supplier. One supplier record per profile
func (s *DirectoryService) OnboardSupplier(actor models.Actor, req *models.SupplierOnboardingRequest) (*models.Supplier, error) {
	if !actor.IsSupplier() {
		return nil, models.ErrUnauthorized
	}
	if req.BusinessName == "" {
		return nil, models.Validationf("businessName is required")
	}
	if req.LocationCountry == "" {
		return nil, models.Validationf("locationCountry is required")
	}

	var existing int64
	err := s.db.Model(&models.Supplier{}).Where("user_id = ?", actor.UserID).Count(&existing).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if existing > 0 {
		return nil, models.Validationf("supplier record already exists for this profile")
	}

	supplier := models.Supplier{
		SupplierID:      "sup_" + uuid.New().String(),
		UserID:          actor.UserID,
		BusinessName:    req.BusinessName,
		Description:     req.Description,
		DeliveryZones:   models.StringSlice(req.DeliveryZones),
		LocationCity:    req.LocationCity,
		LocationState:   req.LocationState,
		LocationCountry: req.LocationCountry,
		IsActive:        true,
	}
	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Supplier onboarded", "supplierId", supplier.SupplierID, "userId", actor.UserID)
	return &supplier, nil
}

// OnboardCompany creates the company provider record owned by a profile
// with role=company_provider. One company record per profile
func (s *DirectoryService) OnboardCompany(actor models.Actor, req *models.CompanyOnboardingRequest) (*models.CompanyProvider, error) {
	if !actor.IsCompanyProvider() {
		return nil, models.ErrUnauthorized
	}
	if req.CompanyName == "" {
		return nil, models.Validationf("companyName is required")
	}
	if req.Country == "" {
		return nil, models.Validationf("country is required")
	}

	var existing int64
	err := s.db.Model(&models.CompanyProvider{}).Where("user_id = ?", actor.UserID).Count(&existing).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	if existing > 0 {
		return nil, models.Validationf("company record already exists for this profile")
	}

	company := models.CompanyProvider{
		CompanyID:   "cmp_" + uuid.New().String(),
		UserID:      actor.UserID,
		CompanyName: req.CompanyName,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		Country:     req.Country,
		IsActive:    true,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Company provider onboarded", "companyId", company.CompanyID, "userId", actor.UserID)
	return &company, nil
}

// ListSuppliers retrieves the active suppliers, alphabetically. This is the
// public directory consumers browse
func (s *DirectoryService) ListSuppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.Where("is_active = ?", true).
		Order("business_name").
		Find(&suppliers).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return suppliers, nil
}

// ListCompanies retrieves the active company providers, alphabetically
func (s *DirectoryService) ListCompanies() ([]models.CompanyProvider, error) {
	var companies []models.CompanyProvider
	err := s.db.Where("is_active = ?", true).
		Order("company_name").
		Find(&companies).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return companies, nil
}

// ResolveActor builds the Actor for a user: the profile role plus the
// supplier or company record the role owns, when one exists
func (s *DirectoryService) ResolveActor(userID string) (models.Actor, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return models.Actor{}, err
	}

	actor := models.Actor{UserID: profile.ProfileID, Role: profile.Role}

	switch profile.Role {
	case models.RoleSupplier:
		var supplier models.Supplier
		err := s.db.First(&supplier, "user_id = ?", userID).Error
		if err == nil {
			actor.SupplierID = supplier.SupplierID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Actor{}, models.WrapStorage(err)
		}
	case models.RoleCompanyProvider:
		var company models.CompanyProvider
		err := s.db.First(&company, "user_id = ?", userID).Error
		if err == nil {
			actor.CompanyID = company.CompanyID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Actor{}, models.WrapStorage(err)
		}
	}
	return actor, nil
}
