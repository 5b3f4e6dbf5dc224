// Package graphql composes the downstream services into the public
// GraphQL API.
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/gateway/infra/httpx/middlewares"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/auth"
)

// Resolver carries the downstream ports every field resolver closes over.
type Resolver struct {
	Clients  ports.ClientsService
	Products ports.ProductsService
	Orders   ports.OrdersService
	Payments ports.PaymentsService
	Invoices ports.InvoicesService
}

// requireAuth rejects anonymous callers before any downstream call is
// made.
func requireAuth(ctx context.Context) (*auth.Claims, error) {
	claims := middlewares.ClaimsFrom(ctx)
	if claims == nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "authentication required")
	}
	return claims, nil
}

func requireAdmin(ctx context.Context) (*auth.Claims, error) {
	claims, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, apperr.New(apperr.KindUnauthorized, "admin role required")
	}
	return claims, nil
}

// requireSelfOrAdmin lets a caller act on their own records only, unless
// they hold the admin role.
func requireSelfOrAdmin(ctx context.Context, clientID string) (*auth.Claims, error) {
	claims, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() && claims.UserID != clientID {
		return nil, apperr.New(apperr.KindUnauthorized, "not allowed to access this resource")
	}
	return claims, nil
}

// NewSchema wires the full query and mutation surface.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	addressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street":     &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"postalCode": &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
		},
	})

	addressInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"street":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"city":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"postalCode": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"country":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	clientType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Client",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"firstName": &graphql.Field{Type: graphql.String},
			"lastName":  &graphql.Field{Type: graphql.String},
			"phone":     &graphql.Field{Type: graphql.String},
			"role":      &graphql.Field{Type: graphql.String},
			"address":   &graphql.Field{Type: addressType},
			"createdAt": &graphql.Field{Type: graphql.String},
			"updatedAt": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"stock":       &graphql.Field{Type: graphql.Int},
			"category":    &graphql.Field{Type: graphql.String},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"createdAt":   &graphql.Field{Type: graphql.String},
			"updatedAt":   &graphql.Field{Type: graphql.String},
		},
	})

	orderItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"productId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":  &graphql.Field{Type: graphql.Int},
			"price":     &graphql.Field{Type: graphql.Float},
			"total":     &graphql.Field{Type: graphql.Float},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"orderNumber":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"clientId":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"items":           &graphql.Field{Type: graphql.NewList(orderItemType)},
			"status":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"total":           &graphql.Field{Type: graphql.Float},
			"shippingAddress": &graphql.Field{Type: addressType},
			"createdAt":       &graphql.Field{Type: graphql.String},
			"updatedAt":       &graphql.Field{Type: graphql.String},
		},
	})

	paymentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Payment",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"orderId":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"amount":        &graphql.Field{Type: graphql.Float},
			"method":        &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: graphql.String},
			"transactionId": &graphql.Field{Type: graphql.String},
			"failureReason": &graphql.Field{Type: graphql.String},
			"createdAt":     &graphql.Field{Type: graphql.String},
			"updatedAt":     &graphql.Field{Type: graphql.String},
		},
	})

	invoiceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Invoice",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"invoiceNumber": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"orderId":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"clientId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"subtotal":      &graphql.Field{Type: graphql.Float},
			"tax":           &graphql.Field{Type: graphql.Float},
			"total":         &graphql.Field{Type: graphql.Float},
			"status":        &graphql.Field{Type: graphql.String},
			"issuedAt":      &graphql.Field{Type: graphql.String},
			"createdAt":     &graphql.Field{Type: graphql.String},
			"updatedAt":     &graphql.Field{Type: graphql.String},
		},
	})

	// Relations are added after construction so the types can reference
	// each other.
	clientType.AddFieldConfig("orders", &graphql.Field{
		Type: graphql.NewList(orderType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			client, ok := clientFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Orders.List(p.Context, client.ID, "")
		},
	})

	orderItemType.AddFieldConfig("product", &graphql.Field{
		Type: productType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			item, ok := p.Source.(entity.OrderItem)
			if !ok {
				return nil, nil
			}
			return r.Products.Get(p.Context, item.ProductID)
		},
	})

	orderType.AddFieldConfig("client", &graphql.Field{
		Type: clientType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			order, ok := orderFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Clients.Get(p.Context, order.ClientID)
		},
	})
	orderType.AddFieldConfig("payments", &graphql.Field{
		Type: graphql.NewList(paymentType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			order, ok := orderFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Payments.ListByOrder(p.Context, order.ID)
		},
	})
	orderType.AddFieldConfig("invoice", &graphql.Field{
		Type: invoiceType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			order, ok := orderFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			invoices, err := r.Invoices.List(p.Context, "", order.ID)
			if err != nil || len(invoices) == 0 {
				return nil, err
			}
			return invoices[0], nil
		},
	})

	paymentType.AddFieldConfig("order", &graphql.Field{
		Type: orderType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			payment, ok := paymentFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Orders.Get(p.Context, payment.OrderID)
		},
	})

	invoiceType.AddFieldConfig("order", &graphql.Field{
		Type: orderType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			invoice, ok := invoiceFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Orders.Get(p.Context, invoice.OrderID)
		},
	})
	invoiceType.AddFieldConfig("client", &graphql.Field{
		Type: clientType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			invoice, ok := invoiceFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return r.Clients.Get(p.Context, invoice.ClientID)
		},
	})

	orderItemInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderItemInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ping": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return "pong", nil
				},
			},
			"me": &graphql.Field{
				Type: clientType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					return r.Clients.Get(p.Context, claims.UserID)
				},
			},
			"client": &graphql.Field{
				Type: clientType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := p.Args["id"].(string)
					if _, err := requireSelfOrAdmin(p.Context, id); err != nil {
						return nil, err
					}
					return r.Clients.Get(p.Context, id)
				},
			},
			"clients": &graphql.Field{
				Type: graphql.NewList(clientType),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					clients, _, err := r.Clients.List(p.Context, p.Args["limit"].(int), p.Args["offset"].(int))
					return clients, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Products.Get(p.Context, p.Args["id"].(string))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					products, _, err := r.Products.List(p.Context,
						p.Args["category"].(string), p.Args["limit"].(int), p.Args["offset"].(int))
					return products, err
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					order, err := r.Orders.Get(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					if !claims.IsAdmin() && order.ClientID != claims.UserID {
						return nil, apperr.New(apperr.KindUnauthorized, "not allowed to access this order")
					}
					return order, nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"clientId": &graphql.ArgumentConfig{Type: graphql.ID, DefaultValue: ""},
					"status":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Orders.List(p.Context, p.Args["clientId"].(string), p.Args["status"].(string))
				},
			},
			"myOrders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					return r.Orders.List(p.Context, claims.UserID, "")
				},
			},
			"payment": &graphql.Field{
				Type: paymentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.Payments.Get(p.Context, p.Args["id"].(string))
				},
			},
			"paymentsByOrder": &graphql.Field{
				Type: graphql.NewList(paymentType),
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.Payments.ListByOrder(p.Context, p.Args["orderId"].(string))
				},
			},
			"invoice": &graphql.Field{
				Type: invoiceType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					invoice, err := r.Invoices.Get(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					if !claims.IsAdmin() && invoice.ClientID != claims.UserID {
						return nil, apperr.New(apperr.KindUnauthorized, "not allowed to access this invoice")
					}
					return invoice, nil
				},
			},
			"invoices": &graphql.Field{
				Type: graphql.NewList(invoiceType),
				Args: graphql.FieldConfigArgument{
					"clientId": &graphql.ArgumentConfig{Type: graphql.ID, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					clientID := p.Args["clientId"].(string)
					// Non-admin callers only ever see their own invoices.
					if !claims.IsAdmin() {
						clientID = claims.UserID
					}
					return r.Invoices.List(p.Context, clientID, "")
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createClient": &graphql.Field{
				Type: clientType,
				Args: graphql.FieldConfigArgument{
					"email":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"firstName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lastName":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone":     &graphql.ArgumentConfig{Type: graphql.String},
					"address":   &graphql.ArgumentConfig{Type: addressInput},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					password := stringArg(p.Args, "password")
					if len(password) < 8 {
						return nil, apperr.Validation("password must be at least 8 characters", "password")
					}
					hash, err := auth.HashPassword(password)
					if err != nil {
						return nil, err
					}
					return r.Clients.Create(p.Context, entity.CreateClientInput{
						Email:     stringArg(p.Args, "email"),
						Password:  hash,
						FirstName: stringArg(p.Args, "firstName"),
						LastName:  stringArg(p.Args, "lastName"),
						Phone:     stringArg(p.Args, "phone"),
						Address:   addressArg(p.Args, "address"),
					})
				},
			},
			"updateClient": &graphql.Field{
				Type: clientType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"firstName": &graphql.ArgumentConfig{Type: graphql.String},
					"lastName":  &graphql.ArgumentConfig{Type: graphql.String},
					"phone":     &graphql.ArgumentConfig{Type: graphql.String},
					"address":   &graphql.ArgumentConfig{Type: addressInput},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := p.Args["id"].(string)
					if _, err := requireSelfOrAdmin(p.Context, id); err != nil {
						return nil, err
					}
					in := entity.UpdateClientInput{
						FirstName: optString(p.Args, "firstName"),
						LastName:  optString(p.Args, "lastName"),
						Phone:     optString(p.Args, "phone"),
						Address:   addressArg(p.Args, "address"),
					}
					return r.Clients.Update(p.Context, id, in)
				},
			},
			"deleteClient": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					if err := r.Clients.Delete(p.Context, p.Args["id"].(string)); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"stock":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"category":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"images":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Products.Create(p.Context, entity.CreateProductInput{
						Name:        p.Args["name"].(string),
						Description: p.Args["description"].(string),
						Price:       p.Args["price"].(float64),
						Stock:       p.Args["stock"].(int),
						Category:    p.Args["category"].(string),
						Images:      stringsArg(p.Args, "images"),
					})
				},
			},
			"updateProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"name":        &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"price":       &graphql.ArgumentConfig{Type: graphql.Float},
					"stock":       &graphql.ArgumentConfig{Type: graphql.Int},
					"category":    &graphql.ArgumentConfig{Type: graphql.String},
					"images":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Products.Update(p.Context, p.Args["id"].(string), entity.UpdateProductInput{
						Name:        optString(p.Args, "name"),
						Description: optString(p.Args, "description"),
						Price:       optFloat(p.Args, "price"),
						Stock:       optInt(p.Args, "stock"),
						Category:    optString(p.Args, "category"),
						Images:      stringsArg(p.Args, "images"),
					})
				},
			},
			"deleteProduct": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					if err := r.Products.Delete(p.Context, p.Args["id"].(string)); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"updateStock": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"quantity": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Products.UpdateStock(p.Context, p.Args["id"].(string), p.Args["quantity"].(int))
				},
			},
			"createOrder": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"clientId":        &graphql.ArgumentConfig{Type: graphql.ID, DefaultValue: ""},
					"items":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(orderItemInput))},
					"shippingAddress": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addressInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					clientID := p.Args["clientId"].(string)
					// Non-admin callers always order for themselves.
					if clientID == "" || !claims.IsAdmin() {
						clientID = claims.UserID
					}
					address := addressArg(p.Args, "shippingAddress")
					if address == nil {
						return nil, apperr.Validation("shippingAddress is required", "shippingAddress")
					}
					return r.Orders.Create(p.Context, entity.CreateOrderInput{
						ClientID:        clientID,
						Items:           itemsArg(p.Args, "items"),
						ShippingAddress: *address,
					})
				},
			},
			"updateOrderStatus": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Orders.UpdateStatus(p.Context, p.Args["id"].(string), p.Args["status"].(string))
				},
			},
			"cancelOrder": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					id := p.Args["id"].(string)
					order, err := r.Orders.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					if !claims.IsAdmin() && order.ClientID != claims.UserID {
						return nil, apperr.New(apperr.KindUnauthorized, "not allowed to cancel this order")
					}
					return r.Orders.Cancel(p.Context, id)
				},
			},
			"processPayment": &graphql.Field{
				Type: paymentType,
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"amount":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"method":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.Payments.Process(p.Context, entity.ProcessPaymentInput{
						OrderID: p.Args["orderId"].(string),
						Amount:  p.Args["amount"].(float64),
						Method:  p.Args["method"].(string),
						Token:   stringArg(p.Args, "token"),
					})
				},
			},
			"refundPayment": &graphql.Field{
				Type: paymentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Payments.Refund(p.Context, p.Args["id"].(string))
				},
			},
			"generateInvoice": &graphql.Field{
				Type: invoiceType,
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					orderID := p.Args["orderId"].(string)
					order, err := r.Orders.Get(p.Context, orderID)
					if err != nil {
						return nil, err
					}
					if !claims.IsAdmin() && order.ClientID != claims.UserID {
						return nil, apperr.New(apperr.KindUnauthorized, "not allowed to invoice this order")
					}
					return r.Invoices.Generate(p.Context, orderID)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
