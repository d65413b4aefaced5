package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnonymousOwner is recorded as the order owner when no identity is signed in.
const AnonymousOwner = "anonymous"

// RoleAdmin is the only role an AdminUser can hold.
const RoleAdmin = "admin"

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"` // per kilogram
	Category  string          `json:"category"`
	ImageURL  *string         `json:"imageUrl"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// OrderLineItem snapshots the catalog price at placement time.
type OrderLineItem struct {
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// Extension is the line's contribution to the order total.
func (l OrderLineItem) Extension() decimal.Decimal {
	return l.PricePerUnit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultLocation is the placeholder coordinate attached to new orders.
var DefaultLocation = Location{Lat: 40.7128, Lng: -74.0060}

type Order struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Items             []OrderLineItem `json:"items"`
	DeliveryCharge    decimal.Decimal `json:"deliveryCharge"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Status            Status          `json:"status"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     string          `json:"customerEmail"`
	DeliveryAddress   string          `json:"deliveryAddress"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	CurrentLocation   Location        `json:"currentLocation"`
}

type AdminUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
