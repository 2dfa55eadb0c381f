// Package models defines the session cart.
package models

import (
	id "aseara/pkg/domain"
)

// Cart is the session-scoped item bag. It lives in the session store, not
// the relational database, and expires with the session.
type Cart struct {
	SessionID string              `json:"session_id"`
	Items     map[string]CartItem `json:"items"`
}

// CartItem is one product entry. The key of Cart.Items is the product id
// string, kept redundantly here for callers iterating items alone.
type CartItem struct {
	ProductID id.ProductID `json:"product_id"`
	Quantity  int          `json:"quantity"`
}

// NewCart builds an empty cart for a session.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: make(map[string]CartItem)}
}

// SetQuantity sets a product's quantity. Zero or negative removes the
// entry.
func (c *Cart) SetQuantity(productID id.ProductID, quantity int) {
	if c.Items == nil {
		c.Items = make(map[string]CartItem)
	}
	key := productID.String()
	if quantity <= 0 {
		delete(c.Items, key)
		return
	}
	c.Items[key] = CartItem{ProductID: productID, Quantity: quantity}
}

// Add increases a product's quantity by delta, creating the entry if
// absent.
func (c *Cart) Add(productID id.ProductID, delta int) {
	current := 0
	if item, ok := c.Items[productID.String()]; ok {
		current = item.Quantity
	}
	c.SetQuantity(productID, current+delta)
}

// Count is the total number of units across all entries.
func (c *Cart) Count() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }
