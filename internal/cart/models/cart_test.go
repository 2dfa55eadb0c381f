package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "aseara/pkg/domain"
)

func TestCart(t *testing.T) {
	productA := id.NewProductID()
	productB := id.NewProductID()

	t.Run("new cart is empty", func(t *testing.T) {
		cart := NewCart("sess-1")
		assert.True(t, cart.IsEmpty())
		assert.Zero(t, cart.Count())
	})

	t.Run("add accumulates per product", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.Add(productA, 2)
		cart.Add(productA, 3)
		cart.Add(productB, 1)
		assert.Equal(t, 6, cart.Count())
		assert.Equal(t, 5, cart.Items[productA.String()].Quantity)
	})

	t.Run("set quantity replaces and zero removes", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.Add(productA, 4)
		cart.SetQuantity(productA, 2)
		assert.Equal(t, 2, cart.Count())

		cart.SetQuantity(productA, 0)
		assert.True(t, cart.IsEmpty())
		assert.NotContains(t, cart.Items, productA.String())
	})

	t.Run("negative quantity removes", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.Add(productA, 1)
		cart.SetQuantity(productA, -3)
		assert.True(t, cart.IsEmpty())
	})
}
