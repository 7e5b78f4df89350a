package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/originate-market/api-server-go/v1/middleware"
	"github.com/originate-market/api-server-go/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

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
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewV1Handler(db).SetupV1Routes(mux)
	return middleware.IdentityContext(mux)
}

// doRequest performs a JSON request as the given user and decodes the
// response body into out when it is non-nil
func doRequest(t *testing.T, handler http.Handler, method, path, userID string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Email", userID+"@test.com")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// registerUser creates a profile for userID with the given role
func registerUser(t *testing.T, handler http.Handler, userID string, role models.Role) {
	t.Helper()
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/profiles", userID, models.CreateProfileRequest{
		FullName: "Test " + string(role),
		Role:     role,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAuthenticationRequired(t *testing.T) {
	handler := setupTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/orders", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Identity without a registered profile is still not an actor
	rec = doRequest(t, handler, http.MethodGet, "/api/v1/orders", "ghost", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The supplier directory is public
	rec = doRequest(t, handler, http.MethodGet, "/api/v1/suppliers", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarketplaceFlow(t *testing.T) {
	handler := setupTestServer(t)

	registerUser(t, handler, "consumer1", models.RoleConsumer)
	registerUser(t, handler, "supplier1", models.RoleSupplier)
	registerUser(t, handler, "company1", models.RoleCompanyProvider)

	// Onboard the supplier and the company
	var supplier models.Supplier
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/suppliers", "supplier1", models.SupplierOnboardingRequest{
		BusinessName:    "Finca El Paraiso",
		LocationCountry: "Colombia",
	}, &supplier)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var company models.CompanyProvider
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/companies", "company1", models.CompanyOnboardingRequest{
		CompanyName: "Andes Coffee Co",
		Country:     "Colombia",
	}, &company)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Supplier applies, company approves
	var relationship models.SupplierCompanyRelationship
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/relationships", "supplier1", models.ApplyToCompanyRequest{
		CompanyProviderID: company.CompanyID,
	}, &relationship)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, models.RelationshipPending, relationship.Status)

	// A second application conflicts
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/relationships", "supplier1", models.ApplyToCompanyRequest{
		CompanyProviderID: company.CompanyID,
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/relationships/%s/approve", relationship.RelationshipID),
		"company1", nil, &relationship)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.RelationshipApproved, relationship.Status)

	// Company lists a product
	var product models.Product
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/products", "company1", models.CreateProductRequest{
		Name:        "Huila Single Origin",
		Price:       18.50,
		Category:    models.CategorySingleOrigin,
		RoastLevel:  models.RoastMedium,
		Origin:      "Huila, Colombia",
		WeightGrams: 340,
	}, &product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Consumer connects and saves an address
	var connection models.ConsumerSupplierConnection
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/connections", "consumer1", models.ConnectRequest{
		SupplierID:        supplier.SupplierID,
		CompanyProviderID: company.CompanyID,
	}, &connection)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var address models.Address
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/addresses", "consumer1", models.CreateAddressRequest{
		Street:     "Calle 10 #5-51",
		City:       "Bogota",
		PostalCode: "110111",
		Country:    "Colombia",
		IsDefault:  true,
	}, &address)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Consumer places an order
	var order models.Order
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/orders", "consumer1", models.CreateOrderRequest{
		SupplierID:        supplier.SupplierID,
		CompanyProviderID: company.CompanyID,
		ShippingAddressID: address.AddressID,
		Items: []models.OrderItemInput{
			{ProductID: product.ProductID, Quantity: 2},
		},
	}, &order)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 37.00, order.TotalAmount)

	// Supplier advances the order; consumer can no longer cancel
	rec = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/orders/%s/advance", order.OrderID), "supplier1",
		models.AdvanceOrderRequest{FromStatus: models.OrderPending}, &order)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderConfirmed, order.Status)

	// Resubmitting the same advance is rejected and the order stays put
	rec = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/orders/%s/advance", order.OrderID), "supplier1",
		models.AdvanceOrderRequest{FromStatus: models.OrderPending}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, handler, http.MethodGet,
		fmt.Sprintf("/api/v1/orders/%s", order.OrderID), "supplier1", nil, &order)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderConfirmed, order.Status)

	rec = doRequest(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/orders/%s/cancel", order.OrderID), "consumer1", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Every party sees the order in its own list
	for _, userID := range []string{"consumer1", "supplier1", "company1"} {
		var listing models.CollectionResponse
		rec = doRequest(t, handler, http.MethodGet, "/api/v1/orders", userID, nil, &listing)
		require.Equal(t, http.StatusOK, rec.Code, userID)
		assert.Equal(t, 1, listing.Count, userID)
	}
}

func TestOrderErrorMapping(t *testing.T) {
	handler := setupTestServer(t)
	registerUser(t, handler, "consumer1", models.RoleConsumer)

	// Empty order: 422
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/orders", "consumer1", models.CreateOrderRequest{
		SupplierID:        "sup_x",
		CompanyProviderID: "cmp_x",
		ShippingAddressID: "addr_x",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Unknown order: 404
	rec = doRequest(t, handler, http.MethodGet, "/api/v1/orders/ord_missing", "consumer1", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Advancing a missing order: 404 before any authorization check
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/orders/ord_missing/advance", "consumer1",
		models.AdvanceOrderRequest{FromStatus: models.OrderPending}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Advance without the observed status: 400
	rec = doRequest(t, handler, http.MethodPost, "/api/v1/orders/ord_missing/advance", "consumer1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed body: 400
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte("{")))
	req.Header.Set("X-User-ID", "consumer1")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
