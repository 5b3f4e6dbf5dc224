package domain

import "time"

// Client is a customer identity/profile record. Password holds a bcrypt
// hash and is stripped from every public response.
type Client struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Address   *Address  `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns a copy safe to serialize to callers.
func (c Client) Public() Client {
	c.Password = ""
	return c
}

// Address is an optional profile address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// DefaultRole is assigned to clients created without an explicit role.
const DefaultRole = "client"
