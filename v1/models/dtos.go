package models

// CreateProfileRequest represents the request to register a profile for the
// authenticated identity. The role is fixed once the profile exists
type CreateProfileRequest struct {
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone,omitempty"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest represents the request to update profile details.
// Role is intentionally absent: there is no migration path between roles
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// CreateAddressRequest represents the request to add an address
type CreateAddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// UpdateAddressRequest represents the request to update an address
type UpdateAddressRequest struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
	IsDefault  *bool   `json:"isDefault,omitempty"`
}

// SupplierOnboardingRequest represents the request to create the supplier
// record owned by a profile with role=supplier
type SupplierOnboardingRequest struct {
	BusinessName    string   `json:"businessName"`
	Description     *string  `json:"description,omitempty"`
	DeliveryZones   []string `json:"deliveryZones"`
	LocationCity    *string  `json:"locationCity,omitempty"`
	LocationState   *string  `json:"locationState,omitempty"`
	LocationCountry string   `json:"locationCountry"`
}

// CompanyOnboardingRequest represents the request to create the company
// provider record owned by a profile with role=company_provider
type CompanyOnboardingRequest struct {
	CompanyName string  `json:"companyName"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
	Country     string  `json:"country"`
}

// CreateProductRequest represents the request to add a catalog product
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        float64         `json:"price"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	Category     ProductCategory `json:"category"`
	RoastLevel   RoastLevel      `json:"roastLevel"`
	Origin       string          `json:"origin"`
	TastingNotes []string        `json:"tastingNotes"`
	WeightGrams  int             `json:"weightGrams"`
	IsAvailable  *bool           `json:"isAvailable,omitempty"`
}

// UpdateProductRequest represents the request to update a catalog product
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *float64         `json:"price,omitempty"`
	ImageURL     *string          `json:"imageUrl,omitempty"`
	Category     *ProductCategory `json:"category,omitempty"`
	RoastLevel   *RoastLevel      `json:"roastLevel,omitempty"`
	Origin       *string          `json:"origin,omitempty"`
	TastingNotes []string         `json:"tastingNotes,omitempty"`
	WeightGrams  *int             `json:"weightGrams,omitempty"`
	IsAvailable  *bool            `json:"isAvailable,omitempty"`
}

// CollectionResponse wraps list responses with a count
type CollectionResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// ApplyToCompanyRequest represents a supplier's application to distribute
// for a company
type ApplyToCompanyRequest struct {
	CompanyProviderID string `json:"companyProviderId"`
}

// ConnectRequest represents a consumer's request to connect with a supplier
// under a company
type ConnectRequest struct {
	SupplierID        string `json:"supplierId"`
	CompanyProviderID string `json:"companyProviderId"`
}

// OrderItemInput is one line of an order creation request. The price is
// looked up server-side at call time, never taken from the client
type OrderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest represents the request to place an order
type CreateOrderRequest struct {
	SupplierID        string           `json:"supplierId"`
	CompanyProviderID string           `json:"companyProviderId"`
	ShippingAddressID string           `json:"shippingAddressId"`
	Notes             *string          `json:"notes,omitempty"`
	Items             []OrderItemInput `json:"items"`
}

// AdvanceOrderRequest carries the status the caller saw when deciding to
// advance. The transition only happens if the order is still in that status,
// which makes resubmitting the same request safe
type AdvanceOrderRequest struct {
	FromStatus OrderStatus `json:"fromStatus"`
}
