package models

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions is the single transition table shared by every caller.
// Forward progression is linear; cancelled is reachable only from pending
// and is handled separately so suppliers can never cancel
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderPreparing,
	OrderPreparing: OrderShipped,
	OrderShipped:   OrderDelivered,
}

// Next returns the unique forward successor of the status. ok is false for
// terminal states
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderTransitions[s]
	return next, ok
}

// IsTerminal reports whether no transition can ever leave the status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Cancellable reports whether the consumer may still cancel at this status
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending
}

// Order represents the orders table. Created once by the consumer in
// pending; never deleted, only transitioned or cancelled
type Order struct {
	OrderID           string      `gorm:"primarykey;column:order_id" json:"orderId"`
	ConsumerID        string      `gorm:"column:consumer_id;not null;index" json:"consumerId"`
	SupplierID        string      `gorm:"column:supplier_id;not null;index" json:"supplierId"`
	CompanyID         string      `gorm:"column:company_provider_id;not null;index" json:"companyProviderId"`
	Status            OrderStatus `gorm:"column:status;not null" json:"status"`
	TotalAmount       float64     `gorm:"column:total_amount;not null" json:"totalAmount"`
	ShippingAddressID string      `gorm:"column:shipping_address_id;not null" json:"shippingAddressId"`
	Notes             *string     `gorm:"column:notes" json:"notes,omitempty"`
	BaseModel

	// Relationships
	Items           []OrderItem      `gorm:"foreignKey:OrderID;references:OrderID" json:"items,omitempty"`
	Supplier        *Supplier        `gorm:"foreignKey:SupplierID;references:SupplierID" json:"supplier,omitempty"`
	ShippingAddress *Address         `gorm:"foreignKey:ShippingAddressID;references:AddressID" json:"shippingAddress,omitempty"`
	CompanyProvider *CompanyProvider `gorm:"foreignKey:CompanyID;references:CompanyID" json:"companyProvider,omitempty"`
}

// TableName sets the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents the order_items table. PriceAtPurchase is a frozen
// copy of the product price at order time and is never re-derived from the
// live catalog
type OrderItem struct {
	OrderItemID     string  `gorm:"primarykey;column:order_item_id" json:"orderItemId"`
	OrderID         string  `gorm:"column:order_id;not null;index" json:"orderId"`
	ProductID       string  `gorm:"column:product_id;not null" json:"productId"`
	Quantity        int     `gorm:"column:quantity;not null" json:"quantity"`
	PriceAtPurchase float64 `gorm:"column:price_at_purchase;not null" json:"priceAtPurchase"`
	BaseModel

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

// TableName sets the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}
