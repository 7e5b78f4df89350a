package models

import "time"

// Profile represents the profiles table. One profile per identity; the role
// tag is fixed at creation
type Profile struct {
	ProfileID string  `gorm:"primarykey;column:profile_id" json:"profileId"`
	Email     string  `gorm:"column:email;not null;unique" json:"email"`
	FullName  string  `gorm:"column:full_name;not null" json:"fullName"`
	Phone     *string `gorm:"column:phone" json:"phone,omitempty"`
	Role      Role    `gorm:"column:role;not null" json:"role"`
	AvatarURL *string `gorm:"column:avatar_url" json:"avatarUrl,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// Address represents the addresses table. At most one address per owner
// carries is_default=true; the service layer keeps that invariant
type Address struct {
	AddressID  string `gorm:"primarykey;column:address_id" json:"addressId"`
	UserID     string `gorm:"column:user_id;not null;index" json:"userId"`
	Street     string `gorm:"column:street;not null" json:"street"`
	City       string `gorm:"column:city;not null" json:"city"`
	State      string `gorm:"column:state" json:"state"`
	PostalCode string `gorm:"column:postal_code;not null" json:"postalCode"`
	Country    string `gorm:"column:country;not null" json:"country"`
	IsDefault  bool   `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	BaseModel
}

// TableName sets the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// CompanyProvider represents the company_providers table, owned 1:1 by a
// profile with role=company_provider
type CompanyProvider struct {
	CompanyID   string  `gorm:"primarykey;column:company_id" json:"companyId"`
	UserID      string  `gorm:"column:user_id;not null;unique" json:"userId"`
	CompanyName string  `gorm:"column:company_name;not null" json:"companyName"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	LogoURL     *string `gorm:"column:logo_url" json:"logoUrl,omitempty"`
	Website     *string `gorm:"column:website" json:"website,omitempty"`
	Country     string  `gorm:"column:country;not null" json:"country"`
	IsActive    bool    `gorm:"column:is_active;not null;default:true" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (CompanyProvider) TableName() string {
	return "company_providers"
}

// Supplier represents the suppliers table, owned 1:1 by a profile with
// role=supplier
type Supplier struct {
	SupplierID      string      `gorm:"primarykey;column:supplier_id" json:"supplierId"`
	UserID          string      `gorm:"column:user_id;not null;unique" json:"userId"`
	BusinessName    string      `gorm:"column:business_name;not null" json:"businessName"`
	Description     *string     `gorm:"column:description" json:"description,omitempty"`
	DeliveryZones   StringSlice `gorm:"column:delivery_zones" json:"deliveryZones"`
	LocationCity    *string     `gorm:"column:location_city" json:"locationCity,omitempty"`
	LocationState   *string     `gorm:"column:location_state" json:"locationState,omitempty"`
	LocationCountry string      `gorm:"column:location_country;not null" json:"locationCountry"`
	IsActive        bool        `gorm:"column:is_active;not null;default:true" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// Product represents the products table. Owned by exactly one company
// provider; the owner never changes
type Product struct {
	ProductID   string          `gorm:"primarykey;column:product_id" json:"productId"`
	CompanyID   string          `gorm:"column:company_provider_id;not null;index" json:"companyProviderId"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description" json:"description"`
	Price       float64         `gorm:"column:price;not null" json:"price"`
	ImageURL    *string         `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Category    ProductCategory `gorm:"column:category;not null" json:"category"`
	RoastLevel  RoastLevel      `gorm:"column:roast_level;not null" json:"roastLevel"`
	Origin      string          `gorm:"column:origin" json:"origin"`
	TastingNote StringSlice     `gorm:"column:tasting_notes" json:"tastingNotes"`
	WeightGrams int             `gorm:"column:weight_grams;not null" json:"weightGrams"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true" json:"isAvailable"`
	BaseModel

	// Relationships
	CompanyProvider *CompanyProvider `gorm:"foreignKey:CompanyID;references:CompanyID" json:"companyProvider,omitempty"`
}

// TableName sets the table name for GORM
func (Product) TableName() string {
	return "products"
}

// SupplierCompanyRelationship links one supplier to one company provider.
// Created by supplier application; approved or rejected only by the owning
// company provider
type SupplierCompanyRelationship struct {
	RelationshipID string             `gorm:"primarykey;column:relationship_id" json:"relationshipId"`
	SupplierID     string             `gorm:"column:supplier_id;not null;index" json:"supplierId"`
	CompanyID      string             `gorm:"column:company_provider_id;not null;index" json:"companyProviderId"`
	Status         RelationshipStatus `gorm:"column:status;not null" json:"status"`
	ApprovedAt     *time.Time         `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	ApprovedBy     *string            `gorm:"column:approved_by" json:"approvedBy,omitempty"`
	BaseModel

	// Relationships
	Supplier        *Supplier        `gorm:"foreignKey:SupplierID;references:SupplierID" json:"supplier,omitempty"`
	CompanyProvider *CompanyProvider `gorm:"foreignKey:CompanyID;references:CompanyID" json:"companyProvider,omitempty"`
}

// TableName sets the table name for GORM
func (SupplierCompanyRelationship) TableName() string {
	return "supplier_company_relationships"
}

// ConsumerSupplierConnection links one consumer to one (supplier, company)
// pair. An active connection is required before an order referencing that
// pair may be created
type ConsumerSupplierConnection struct {
	ConnectionID string           `gorm:"primarykey;column:connection_id" json:"connectionId"`
	ConsumerID   string           `gorm:"column:consumer_id;not null;index" json:"consumerId"`
	SupplierID   string           `gorm:"column:supplier_id;not null;index" json:"supplierId"`
	CompanyID    string           `gorm:"column:company_provider_id;not null" json:"companyProviderId"`
	Status       ConnectionStatus `gorm:"column:status;not null" json:"status"`
	BaseModel

	// Relationships
	Supplier        *Supplier        `gorm:"foreignKey:SupplierID;references:SupplierID" json:"supplier,omitempty"`
	CompanyProvider *CompanyProvider `gorm:"foreignKey:CompanyID;references:CompanyID" json:"companyProvider,omitempty"`
}

// TableName sets the table name for GORM
func (ConsumerSupplierConnection) TableName() string {
	return "consumer_supplier_connections"
}
