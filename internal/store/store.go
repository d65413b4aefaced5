// Package store is the boundary to the document store holding products,
// orders, admin users and customer accounts. Every call touches a single
// document, or reads a collection, and is atomic on its own.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"greengrocer-backend/internal/domain"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

// DecodeError reports a stored document that does not have the expected shape.
type DecodeError struct {
	Collection string
	ID         string
	Field      string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s document %s: %v", e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("decode %s document %s: field %s: %v", e.Collection, e.ID, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProductPatch lists the product fields to change. Nil fields are left alone;
// an empty ImageURL clears the image.
type ProductPatch struct {
	Name      *string
	Price     *decimal.Decimal
	Category  *string
	ImageURL  *string
	UpdatedAt time.Time
}

// OrderUpdate is the only mutation an order accepts after placement.
type OrderUpdate struct {
	Status    domain.Status
	Location  *domain.Location
	UpdatedAt time.Time
}

// Account is a customer login. The password is kept as a bcrypt hash.
type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type CatalogStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o domain.Order) (string, error)
	// GetOrderByID reports found=false, with a nil error, for unknown ids.
	GetOrderByID(ctx context.Context, id string) (domain.Order, bool, error)
	GetOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id string, upd OrderUpdate) error
}

type AdminStore interface {
	ListAdminUsers(ctx context.Context) ([]domain.AdminUser, error)
	CreateAdminUser(ctx context.Context, email string, createdAt time.Time) (domain.AdminUser, error)
	FindAdminByEmail(ctx context.Context, email string) (domain.AdminUser, bool, error)
}

type AccountStore interface {
	CreateAccount(ctx context.Context, a Account) (Account, error)
	FindAccountByEmail(ctx context.Context, email string) (Account, bool, error)
	GetAccount(ctx context.Context, id string) (Account, bool, error)
}

// Store bundles every collection the service uses.
type Store interface {
	CatalogStore
	OrderStore
	AdminStore
	AccountStore
}
