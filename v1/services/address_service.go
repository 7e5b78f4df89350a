package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/gorm"
)

// AddressService manages a user's shipping addresses. At most one address
// per owner is flagged default; flagging a new default unsets the old one in
// the same transaction
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// CreateAddress adds an address for the actor. When the new address is
// flagged default, prior defaults are unset atomically
func (s *AddressService) CreateAddress(actor models.Actor, req *models.CreateAddressRequest) (*models.Address, error) {
	if req.Street == "" || req.City == "" || req.PostalCode == "" || req.Country == "" {
		return nil, models.Validationf("street, city, postalCode and country are required")
	}

	address := models.Address{
		AddressID:  "addr_" + uuid.New().String(),
		UserID:     actor.UserID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetDefaults(tx, actor.UserID); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, models.WrapStorage(err)
	}

	slog.Info("Address created", "addressId", address.AddressID, "userId", actor.UserID, "default", address.IsDefault)
	return &address, nil
}

// UpdateAddress updates an address the actor owns. Setting isDefault=true
// atomically demotes every other address of the owner
func (s *AddressService) UpdateAddress(actor models.Actor, addressID string, req *models.UpdateAddressRequest) (*models.Address, error) {
	address, err := s.getOwnedAddress(actor, addressID)
	if err != nil {
		return nil, err
	}

	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := unsetDefaults(tx, actor.UserID); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return address, nil
}

// SetDefault flags the address as the owner's default, demoting all others
// in the same transaction so exactly one default remains
func (s *AddressService) SetDefault(actor models.Actor, addressID string) (*models.Address, error) {
	address, err := s.getOwnedAddress(actor, addressID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := unsetDefaults(tx, actor.UserID); err != nil {
			return err
		}
		return tx.Model(&models.Address{}).
			Where("address_id = ?", addressID).
			Updates(map[string]interface{}{
				"is_default": true,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, models.WrapStorage(err)
	}

	address.IsDefault = true
	slog.Info("Default address changed", "addressId", addressID, "userId", actor.UserID)
	return address, nil
}

// DeleteAddress removes an address the actor owns
func (s *AddressService) DeleteAddress(actor models.Actor, addressID string) error {
	result := s.db.Where("address_id = ? AND user_id = ?", addressID, actor.UserID).
		Delete(&models.Address{})
	if result.Error != nil {
		return models.WrapStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListAddresses retrieves the actor's addresses, default first
func (s *AddressService) ListAddresses(actor models.Actor) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("user_id = ?", actor.UserID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return addresses, nil
}

func (s *AddressService) getOwnedAddress(actor models.Actor, addressID string) (*models.Address, error) {
	var address models.Address
	err := s.db.First(&address, "address_id = ? AND user_id = ?", addressID, actor.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.WrapStorage(err)
	}
	return &address, nil
}

func unsetDefaults(tx *gorm.DB, userID string) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now().UTC(),
		}).Error
}
