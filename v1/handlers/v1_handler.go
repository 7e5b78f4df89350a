package handlers

import (
	"net/http"
	"strings"

	"github.com/originate-market/api-server-go/shared/utils"
	"github.com/originate-market/api-server-go/v1/middleware"
	"github.com/originate-market/api-server-go/v1/models"
	"github.com/originate-market/api-server-go/v1/services"
	"gorm.io/gorm"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	directoryService    *services.DirectoryService
	addressService      *services.AddressService
	catalogService      *services.CatalogService
	relationshipService *services.RelationshipService
	connectionService   *services.ConnectionService
	orderService        *services.OrderService
}

// NewV1Handler creates a new V1 handler
func NewV1Handler(db *gorm.DB) *V1Handler {
	return &V1Handler{
		directoryService:    services.NewDirectoryService(db),
		addressService:      services.NewAddressService(db),
		catalogService:      services.NewCatalogService(db),
		relationshipService: services.NewRelationshipService(db),
		connectionService:   services.NewConnectionService(db),
		orderService:        services.NewOrderService(db),
	}
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	mux.Handle("/api/v1/profiles", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleProfiles)))
	mux.Handle("/api/v1/profiles/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleProfiles)))
	mux.Handle("/api/v1/suppliers", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleSuppliers)))
	mux.Handle("/api/v1/companies", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleCompanies)))
	mux.Handle("/api/v1/companies/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleCompanies)))
	mux.Handle("/api/v1/products", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleProducts)))
	mux.Handle("/api/v1/products/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleProducts)))
	mux.Handle("/api/v1/addresses", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAddresses)))
	mux.Handle("/api/v1/addresses/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAddresses)))
	mux.Handle("/api/v1/relationships", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleRelationships)))
	mux.Handle("/api/v1/relationships/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleRelationships)))
	mux.Handle("/api/v1/connections", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleConnections)))
	mux.Handle("/api/v1/connections/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleConnections)))
	mux.Handle("/api/v1/orders", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleOrders)))
	mux.Handle("/api/v1/orders/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleOrders)))
}

// respondDomainError maps a service error to its HTTP status
func respondDomainError(w http.ResponseWriter, err error) {
	utils.RespondWithError(w, models.HTTPStatus(err), err.Error())
}

// requireIdentity extracts the caller identity or responds 401
func (h *V1Handler) requireIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok || identity.UserID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return middleware.Identity{}, false
	}
	return identity, true
}

// requireActor resolves the caller to an actor or responds with the error.
// A caller without a profile cannot act on anything role-scoped
func (h *V1Handler) requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return models.Actor{}, false
	}

	actor, err := h.directoryService.ResolveActor(identity.UserID)
	if err != nil {
		if models.HTTPStatus(err) == http.StatusNotFound {
			utils.RespondWithError(w, http.StatusUnauthorized, "No profile for this identity")
		} else {
			respondDomainError(w, err)
		}
		return models.Actor{}, false
	}
	return actor, true
}

// pathParts splits the request path after a prefix into its segments
func pathParts(r *http.Request, prefix string) []string {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.Split(strings.Trim(path, "/"), "/")
}

// handleProfiles handles profile routes
func (h *V1Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/profiles")

	// Collection endpoint: POST /api/v1/profiles
	if len(parts) == 1 && parts[0] == "" {
		if r.Method == http.MethodPost {
			h.createProfile(w, r)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Own-profile endpoint: GET/PUT /api/v1/profiles/me
	if len(parts) == 1 && parts[0] == "me" {
		switch r.Method {
		case http.MethodGet:
			h.getOwnProfile(w, r)
		case http.MethodPut:
			h.updateOwnProfile(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.CreateProfileRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.directoryService.CreateProfile(identity.UserID, identity.Email, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, profile)
}

func (h *V1Handler) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.directoryService.GetProfile(identity.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *V1Handler) updateOwnProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.directoryService.UpdateProfile(identity.UserID, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// handleSuppliers handles the supplier directory and onboarding
func (h *V1Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		suppliers, err := h.directoryService.ListSuppliers()
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: suppliers, Count: len(suppliers)})
	case http.MethodPost:
		actor, ok := h.requireActor(w, r)
		if !ok {
			return
		}
		var req models.SupplierOnboardingRequest
		if err := utils.ParseJSONRequest(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		supplier, err := h.directoryService.OnboardSupplier(actor, &req)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusCreated, supplier)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleCompanies handles the company directory, onboarding and the public
// product listing of a company
func (h *V1Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/companies")

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			companies, err := h.directoryService.ListCompanies()
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: companies, Count: len(companies)})
		case http.MethodPost:
			actor, ok := h.requireActor(w, r)
			if !ok {
				return
			}
			var req models.CompanyOnboardingRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			company, err := h.directoryService.OnboardCompany(actor, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, company)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Company ID is required")
		return
	}

	companyID := parts[0]

	// Available products of a company: GET /api/v1/companies/:companyId/products
	if len(parts) == 2 && parts[1] == "products" {
		if r.Method == http.MethodGet {
			products, err := h.catalogService.ListAvailableProducts(companyID)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: products, Count: len(products)})
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleProducts handles the catalog owned by the calling company
func (h *V1Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/products")

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			products, err := h.catalogService.ListOwnProducts(actor)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: products, Count: len(products)})
		case http.MethodPost:
			var req models.CreateProductRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			product, err := h.catalogService.CreateProduct(actor, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, product)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) != 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	productID := parts[0]
	switch r.Method {
	case http.MethodPut:
		var req models.UpdateProductRequest
		if err := utils.ParseJSONRequest(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		product, err := h.catalogService.UpdateProduct(actor, productID, &req)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, product)
	case http.MethodDelete:
		if err := h.catalogService.DeleteProduct(actor, productID); err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleAddresses handles the caller's address book
func (h *V1Handler) handleAddresses(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/addresses")

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			addresses, err := h.addressService.ListAddresses(actor)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: addresses, Count: len(addresses)})
		case http.MethodPost:
			var req models.CreateAddressRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			address, err := h.addressService.CreateAddress(actor, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, address)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Address ID is required")
		return
	}

	addressID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPut:
			var req models.UpdateAddressRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			address, err := h.addressService.UpdateAddress(actor, addressID, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, address)
		case http.MethodDelete:
			if err := h.addressService.DeleteAddress(actor, addressID); err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Default marker: PUT /api/v1/addresses/:addressId/default
	if len(parts) == 2 && parts[1] == "default" {
		if r.Method == http.MethodPut {
			address, err := h.addressService.SetDefault(actor, addressID)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, address)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleRelationships handles supplier-company applications and decisions
func (h *V1Handler) handleRelationships(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/relationships")

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listRelationships(w, actor)
		case http.MethodPost:
			var req models.ApplyToCompanyRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			relationship, err := h.relationshipService.ApplyToCompany(actor, req.CompanyProviderID)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, relationship)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Relationship ID is required")
		return
	}

	relationshipID := parts[0]

	// Decisions: POST /api/v1/relationships/:relationshipId/{approve|reject|suspend}
	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var relationship *models.SupplierCompanyRelationship
		var err error
		switch parts[1] {
		case "approve":
			relationship, err = h.relationshipService.Approve(actor, relationshipID)
		case "reject":
			relationship, err = h.relationshipService.Reject(actor, relationshipID)
		case "suspend":
			relationship, err = h.relationshipService.Suspend(actor, relationshipID)
		default:
			utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
			return
		}
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, relationship)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listRelationships(w http.ResponseWriter, actor models.Actor) {
	var relationships []models.SupplierCompanyRelationship
	var err error

	switch {
	case actor.IsSupplier():
		relationships, err = h.relationshipService.ListForSupplier(actor)
	case actor.IsCompanyProvider():
		relationships, err = h.relationshipService.ListForCompany(actor)
	default:
		utils.RespondWithError(w, http.StatusForbidden, "Consumers have no supplier-company relationships")
		return
	}

	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: relationships, Count: len(relationships)})
}

// handleConnections handles consumer-supplier connections
func (h *V1Handler) handleConnections(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/connections")

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listConnections(w, actor)
		case http.MethodPost:
			var req models.ConnectRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			connection, err := h.connectionService.Connect(actor, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, connection)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Connection ID is required")
		return
	}

	connectionID := parts[0]

	// Status flips: POST /api/v1/connections/:connectionId/{disconnect|reconnect}
	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var connection *models.ConsumerSupplierConnection
		var err error
		switch parts[1] {
		case "disconnect":
			connection, err = h.connectionService.Disconnect(actor, connectionID)
		case "reconnect":
			connection, err = h.connectionService.Reconnect(actor, connectionID)
		default:
			utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
			return
		}
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, connection)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listConnections(w http.ResponseWriter, actor models.Actor) {
	var connections []models.ConsumerSupplierConnection
	var err error

	switch {
	case actor.IsConsumer():
		connections, err = h.connectionService.ListForConsumer(actor)
	case actor.IsSupplier():
		connections, err = h.connectionService.ListConsumersForSupplier(actor)
	default:
		utils.RespondWithError(w, http.StatusForbidden, "Company providers have no consumer connections")
		return
	}

	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: connections, Count: len(connections)})
}

// handleOrders handles order placement and lifecycle routes
func (h *V1Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/api/v1/orders")

	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			orders, err := h.orderService.ListOrders(actor)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, models.CollectionResponse{Items: orders, Count: len(orders)})
		case http.MethodPost:
			var req models.CreateOrderRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			order, err := h.orderService.CreateOrder(actor, &req)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusCreated, order)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	orderID := parts[0]

	// Single order: GET /api/v1/orders/:orderId
	if len(parts) == 1 {
		if r.Method == http.MethodGet {
			order, err := h.orderService.GetOrder(actor, orderID)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, order)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Lifecycle: POST /api/v1/orders/:orderId/{advance|cancel}
	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var order *models.Order
		var err error
		switch parts[1] {
		case "advance":
			var req models.AdvanceOrderRequest
			if err := utils.ParseJSONRequest(r, &req); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.FromStatus == "" {
				utils.RespondWithError(w, http.StatusBadRequest, "fromStatus is required")
				return
			}
			order, err = h.orderService.Advance(actor, orderID, req.FromStatus)
		case "cancel":
			order, err = h.orderService.Cancel(actor, orderID)
		default:
			utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
			return
		}
		if err != nil {
			respondDomainError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, order)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}
