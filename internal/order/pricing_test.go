package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/domain"
)

func TestResolveLines(t *testing.T) {
	catalog := indexProducts([]domain.Product{
		{ID: "a", Price: decimal.RequireFromString("49.99")},
		{ID: "b", Price: decimal.RequireFromString("0.5")},
	})

	lines, dropped := ResolveLines([]cart.Entry{
		{ProductID: "a", Quantity: 3},
		{ProductID: "x", Quantity: 1},
		{ProductID: "b", Quantity: 7},
	}, catalog)

	require.Len(t, lines, 2)
	assert.Equal(t, []string{"x"}, dropped)
	assert.Equal(t, "a", lines[0].ProductID)
	assert.Equal(t, "b", lines[1].ProductID)

	total := Total(lines, decimal.NewFromInt(12))
	assert.Equal(t, "165.47", total.StringFixed(2))
}

func TestTotal_NoLinesIsDeliveryCharge(t *testing.T) {
	assert.True(t, decimal.NewFromInt(12).Equal(Total(nil, decimal.NewFromInt(12))))
}
