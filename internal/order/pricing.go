package order

import (
	"github.com/shopspring/decimal"

	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/domain"
)

// ResolveLines prices each cart entry against the catalog snapshot. Entries
// whose product is gone are returned in dropped instead of failing.
func ResolveLines(entries []cart.Entry, catalog map[string]domain.Product) (lines []domain.OrderLineItem, dropped []string) {
	lines = make([]domain.OrderLineItem, 0, len(entries))
	for _, e := range entries {
		p, ok := catalog[e.ProductID]
		if !ok {
			dropped = append(dropped, e.ProductID)
			continue
		}
		lines = append(lines, domain.OrderLineItem{
			ProductID:    e.ProductID,
			Quantity:     e.Quantity,
			PricePerUnit: p.Price,
		})
	}
	return lines, dropped
}

// Total is the sum of line extensions plus the flat delivery charge.
func Total(lines []domain.OrderLineItem, deliveryCharge decimal.Decimal) decimal.Decimal {
	sum := deliveryCharge
	for _, l := range lines {
		sum = sum.Add(l.Extension())
	}
	return sum
}

func indexProducts(products []domain.Product) map[string]domain.Product {
	idx := make(map[string]domain.Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
