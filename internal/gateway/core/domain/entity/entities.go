// Package entity holds the gateway-side views of the platform records.
// Timestamps stay as the RFC3339 strings the services emit; the gateway
// never does date arithmetic.
package entity

// Client is a customer profile as served to API consumers. Password is
// only populated on the internal login lookup and never serialized.
type Client struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Password  string   `json:"-"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Role      string   `json:"role"`
	Address   *Address `json:"address"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	Category    string         `json:"category"`
	Images      []string       `json:"images"`
	Attributes  map[string]any `json:"attributes"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	ClientID        string      `json:"clientId"`
	Items           []OrderItem `json:"items"`
	Status          string      `json:"status"`
	Total           float64     `json:"total"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentID       string      `json:"paymentId"`
	InvoiceID       string      `json:"invoiceId"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

type Payment struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	FailureReason string  `json:"failureReason"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type Invoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	OrderID       string  `json:"orderId"`
	ClientID      string  `json:"clientId"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	IssuedAt      string  `json:"issuedAt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// CreateClientInput is the register payload forwarded to the clients
// service. Password must already be hashed.
type CreateClientInput struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Address   *Address `json:"address"`
}

type UpdateClientInput struct {
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

type CreateProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	Category    string         `json:"category"`
	Images      []string       `json:"images"`
	Attributes  map[string]any `json:"attributes"`
}

type UpdateProductInput struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Stock       *int           `json:"stock,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type CreateOrderInput struct {
	ClientID        string                 `json:"clientId"`
	Items           []CreateOrderItemInput `json:"items"`
	ShippingAddress Address                `json:"shippingAddress"`
}

type CreateOrderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ProcessPaymentInput struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
	Token   string  `json:"token,omitempty"`
}
