package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{BookID: "b1", Quantity: 2, Book: &BookSnapshot{ID: "b1", Price: decimal.NewFromInt(45000)}},
			{BookID: "b2", Quantity: 1, Book: &BookSnapshot{ID: "b2", Price: decimal.NewFromInt(72000)}},
			{BookID: "b3", Quantity: 5}, // snapshot missing
		},
		TotalAmount: decimal.NewFromInt(999),
	}

	assert.Equal(t, "162000", cart.Total().String(), "missing snapshots count as zero")
}

func TestCartFind(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{BookID: "b1", Quantity: 1, Book: &BookSnapshot{ID: "b1"}},
			{Quantity: 2, Book: &BookSnapshot{ID: "b2"}}, // bookId only inside the snapshot
		},
	}

	require.NotNil(t, cart.Find("b1"))
	require.NotNil(t, cart.Find("b2"), "falls back to the snapshot id")
	assert.Nil(t, cart.Find("b9"))
	assert.False(t, cart.Empty())
	assert.True(t, Cart{}.Empty())
}
