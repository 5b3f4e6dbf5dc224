package graphql

import "ecommerce-platform/internal/gateway/core/domain/entity"

// Argument extraction helpers. graphql-go delivers optional arguments as
// absent map keys and input objects as map[string]any.

func optString(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func optFloat(args map[string]any, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

func optInt(args map[string]any, key string) *int {
	if v, ok := args[key].(int); ok {
		return &v
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func stringsArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func addressArg(args map[string]any, key string) *entity.Address {
	raw, ok := args[key].(map[string]any)
	if !ok {
		return nil
	}
	addr := &entity.Address{}
	if v, ok := raw["street"].(string); ok {
		addr.Street = v
	}
	if v, ok := raw["city"].(string); ok {
		addr.City = v
	}
	if v, ok := raw["postalCode"].(string); ok {
		addr.PostalCode = v
	}
	if v, ok := raw["country"].(string); ok {
		addr.Country = v
	}
	return addr
}

func itemsArg(args map[string]any, key string) []entity.CreateOrderItemInput {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]entity.CreateOrderItemInput, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		item := entity.CreateOrderItemInput{}
		if s, ok := m["productId"].(string); ok {
			item.ProductID = s
		}
		if n, ok := m["quantity"].(int); ok {
			item.Quantity = n
		}
		out = append(out, item)
	}
	return out
}

func clientFromSource(src any) (entity.Client, bool) {
	switch c := src.(type) {
	case entity.Client:
		return c, true
	case *entity.Client:
		return *c, true
	}
	return entity.Client{}, false
}

func orderFromSource(src any) (entity.Order, bool) {
	switch o := src.(type) {
	case entity.Order:
		return o, true
	case *entity.Order:
		return *o, true
	}
	return entity.Order{}, false
}

func paymentFromSource(src any) (entity.Payment, bool) {
	switch p := src.(type) {
	case entity.Payment:
		return p, true
	case *entity.Payment:
		return *p, true
	}
	return entity.Payment{}, false
}

func invoiceFromSource(src any) (entity.Invoice, bool) {
	switch i := src.(type) {
	case entity.Invoice:
		return i, true
	case *entity.Invoice:
		return *i, true
	}
	return entity.Invoice{}, false
}
