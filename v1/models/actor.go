package models

// Actor is the explicit identity passed into every service operation.
// It replaces ambient session state: handlers resolve it once per request
// from the authenticated identity and the role directory
type Actor struct {
	// UserID is the profile ID issued by the identity provider
	UserID string
	// Role is the profile's fixed role tag
	Role Role
	// SupplierID is set only when Role is supplier
	SupplierID string
	// CompanyID is set only when Role is company_provider
	CompanyID string
}

// IsConsumer reports whether the actor acts in the consumer role
func (a Actor) IsConsumer() bool { return a.Role == RoleConsumer }

// IsSupplier reports whether the actor acts in the supplier role
func (a Actor) IsSupplier() bool { return a.Role == RoleSupplier }

// IsCompanyProvider reports whether the actor acts in the company provider role
func (a Actor) IsCompanyProvider() bool { return a.Role == RoleCompanyProvider }
