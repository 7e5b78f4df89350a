package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/originate-market/api-server-go/v1/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	// Auto-migrate all models
	err = db.AutoMigrate(
		&models.Profile{},
		&models.Address{},
		&models.CompanyProvider{},
		&models.Supplier{},
		&models.Product{},
		&models.SupplierCompanyRelationship{},
		&models.ConsumerSupplierConnection{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// seedConsumer creates a consumer profile and returns its actor
func seedConsumer(t *testing.T, db *gorm.DB) models.Actor {
	t.Helper()
	userID := "user_" + uuid.New().String()
	profile := models.Profile{
		ProfileID: userID,
		Email:     userID + "@test.com",
		FullName:  "Test Consumer",
		Role:      models.RoleConsumer,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to seed consumer: %v", err)
	}
	return models.Actor{UserID: userID, Role: models.RoleConsumer}
}

// seedSupplier creates a supplier profile plus its supplier record
func seedSupplier(t *testing.T, db *gorm.DB) (models.Actor, *models.Supplier) {
	t.Helper()
	userID := "user_" + uuid.New().String()
	profile := models.Profile{
		ProfileID: userID,
		Email:     userID + "@test.com",
		FullName:  "Test Supplier",
		Role:      models.RoleSupplier,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to seed supplier profile: %v", err)
	}
	supplier := models.Supplier{
		SupplierID:      "sup_" + uuid.New().String(),
		UserID:          userID,
		BusinessName:    "Test Roastery",
		LocationCountry: "Colombia",
		IsActive:        true,
	}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	actor := models.Actor{UserID: userID, Role: models.RoleSupplier, SupplierID: supplier.SupplierID}
	return actor, &supplier
}

// seedCompany creates a company provider profile plus its company record
func seedCompany(t *testing.T, db *gorm.DB) (models.Actor, *models.CompanyProvider) {
	t.Helper()
	userID := "user_" + uuid.New().String()
	profile := models.Profile{
		ProfileID: userID,
		Email:     userID + "@test.com",
		FullName:  "Test Company Owner",
		Role:      models.RoleCompanyProvider,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to seed company profile: %v", err)
	}
	company := models.CompanyProvider{
		CompanyID:   "cmp_" + uuid.New().String(),
		UserID:      userID,
		CompanyName: "Test Coffee Co",
		Country:     "Colombia",
		IsActive:    true,
	}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("Failed to seed company: %v", err)
	}
	actor := models.Actor{UserID: userID, Role: models.RoleCompanyProvider, CompanyID: company.CompanyID}
	return actor, &company
}

// seedRelationship creates a supplier-company relationship in the given status
func seedRelationship(t *testing.T, db *gorm.DB, supplierID, companyID string, status models.RelationshipStatus) *models.SupplierCompanyRelationship {
	t.Helper()
	relationship := models.SupplierCompanyRelationship{
		RelationshipID: "rel_" + uuid.New().String(),
		SupplierID:     supplierID,
		CompanyID:      companyID,
		Status:         status,
	}
	if err := db.Create(&relationship).Error; err != nil {
		t.Fatalf("Failed to seed relationship: %v", err)
	}
	return &relationship
}

// seedConnection creates a consumer-supplier connection in the given status
func seedConnection(t *testing.T, db *gorm.DB, consumerID, supplierID, companyID string, status models.ConnectionStatus) *models.ConsumerSupplierConnection {
	t.Helper()
	connection := models.ConsumerSupplierConnection{
		ConnectionID: "con_" + uuid.New().String(),
		ConsumerID:   consumerID,
		SupplierID:   supplierID,
		CompanyID:    companyID,
		Status:       status,
	}
	if err := db.Create(&connection).Error; err != nil {
		t.Fatalf("Failed to seed connection: %v", err)
	}
	return &connection
}

// seedProduct creates an available product in a company's catalog
func seedProduct(t *testing.T, db *gorm.DB, companyID string, price float64) *models.Product {
	t.Helper()
	product := models.Product{
		ProductID:   "prod_" + uuid.New().String(),
		CompanyID:   companyID,
		Name:        "Huila Single Origin",
		Price:       price,
		Category:    models.CategorySingleOrigin,
		RoastLevel:  models.RoastMedium,
		Origin:      "Huila, Colombia",
		WeightGrams: 340,
		IsAvailable: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return &product
}

// seedAddress creates an address for a user
func seedAddress(t *testing.T, db *gorm.DB, userID string, isDefault bool) *models.Address {
	t.Helper()
	address := models.Address{
		AddressID:  "addr_" + uuid.New().String(),
		UserID:     userID,
		Street:     "Calle 10 #5-51",
		City:       "Bogota",
		PostalCode: "110111",
		Country:    "Colombia",
		IsDefault:  isDefault,
	}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("Failed to seed address: %v", err)
	}
	return &address
}

// seedOrder creates an order with one item in the given status
func seedOrder(t *testing.T, db *gorm.DB, consumerID, supplierID, companyID string, status models.OrderStatus) *models.Order {
	t.Helper()
	address := seedAddress(t, db, consumerID, false)
	order := models.Order{
		OrderID:           "ord_" + uuid.New().String(),
		ConsumerID:        consumerID,
		SupplierID:        supplierID,
		CompanyID:         companyID,
		Status:            status,
		TotalAmount:       18.50,
		ShippingAddressID: address.AddressID,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	item := models.OrderItem{
		OrderItemID:     "oi_" + uuid.New().String(),
		OrderID:         order.OrderID,
		ProductID:       "prod_" + uuid.New().String(),
		Quantity:        1,
		PriceAtPurchase: 18.50,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed order item: %v", err)
	}
	return &order
}
