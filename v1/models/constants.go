package models

// Role represents the single role tag carried by every profile.
// A profile's role is fixed at creation; there is no migration path between
// roles.
type Role string

const (
	RoleConsumer        Role = "consumer"
	RoleSupplier        Role = "supplier"
	RoleCompanyProvider Role = "company_provider"
)

// Valid reports whether the role is one of the known role tags
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleSupplier, RoleCompanyProvider:
		return true
	}
	return false
}

// RelationshipStatus represents the status of a supplier-company relationship
type RelationshipStatus string

const (
	RelationshipPending   RelationshipStatus = "pending"
	RelationshipApproved  RelationshipStatus = "approved"
	RelationshipRejected  RelationshipStatus = "rejected"
	RelationshipSuspended RelationshipStatus = "suspended"
)

// ConnectionStatus represents the status of a consumer-supplier connection
type ConnectionStatus string

const (
	ConnectionActive   ConnectionStatus = "active"
	ConnectionInactive ConnectionStatus = "inactive"
)

// ProductCategory represents the catalog category of a product
type ProductCategory string

const (
	CategorySingleOrigin ProductCategory = "single-origin"
	CategoryBlend        ProductCategory = "blend"
	CategorySeasonal     ProductCategory = "seasonal"
	CategoryExclusive    ProductCategory = "exclusive"
)

// RoastLevel represents the roast attribute of a product
type RoastLevel string

const (
	RoastLight  RoastLevel = "light"
	RoastMedium RoastLevel = "medium"
	RoastDark   RoastLevel = "dark"
)

// Field length constraints
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxNotesLength       = 1000
)
