package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greengrocer-backend/internal/domain"
)

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	adminsCollection   = "admin_users"
	accountsCollection = "users"
)

// Read-side document shapes. Money fields stay raw so that prices written
// as doubles or integers by older clients still decode.

type productDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Price     bson.RawValue      `bson:"price"`
	Category  string             `bson:"category"`
	ImageURL  *string            `bson:"image_url"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type lineItemDocument struct {
	ProductID    string        `bson:"product_id"`
	Quantity     int           `bson:"quantity"`
	PricePerUnit bson.RawValue `bson:"price_per_unit"`
}

type locationDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type orderDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	UserID            string             `bson:"user_id"`
	Items             []lineItemDocument `bson:"items"`
	DeliveryCharge    bson.RawValue      `bson:"delivery_charge"`
	TotalPrice        bson.RawValue      `bson:"total_price"`
	Status            string             `bson:"status"`
	CustomerName      string             `bson:"customer_name"`
	CustomerEmail     string             `bson:"customer_email"`
	DeliveryAddress   string             `bson:"delivery_address"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
	EstimatedDelivery time.Time          `bson:"estimated_delivery"`
	CurrentLocation   locationDocument   `bson:"current_location"`
}

type adminDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

type accountDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

var errMissing = errors.New("missing")

func decodeDecimal(v bson.RawValue) (decimal.Decimal, error) {
	if len(v.Value) == 0 {
		return decimal.Zero, errMissing
	}
	switch v.Type {
	case bson.TypeDecimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bson.TypeDouble:
		return decimal.NewFromFloat(v.Double()), nil
	case bson.TypeInt32:
		return decimal.NewFromInt(int64(v.Int32())), nil
	case bson.TypeInt64:
		return decimal.NewFromInt(v.Int64()), nil
	case bson.TypeString:
		return decimal.NewFromString(v.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unexpected bson type %s", v.Type)
	}
}

func encodeDecimal(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func (d productDocument) toDomain() (domain.Product, error) {
	fail := func(field string, err error) (domain.Product, error) {
		return domain.Product{}, &DecodeError{Collection: productsCollection, ID: d.ID.Hex(), Field: field, Err: err}
	}

	if strings.TrimSpace(d.Name) == "" {
		return fail("name", errMissing)
	}
	price, err := decodeDecimal(d.Price)
	if err != nil {
		return fail("price", err)
	}
	if price.IsNegative() {
		return fail("price", errors.New("negative"))
	}

	return domain.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     price,
		Category:  d.Category,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (d orderDocument) toDomain() (domain.Order, error) {
	fail := func(field string, err error) (domain.Order, error) {
		return domain.Order{}, &DecodeError{Collection: ordersCollection, ID: d.ID.Hex(), Field: field, Err: err}
	}

	if d.UserID == "" {
		return fail("user_id", errMissing)
	}
	status := domain.Status(d.Status)
	if !status.Valid() {
		return fail("status", fmt.Errorf("unknown status %q", d.Status))
	}
	if len(d.Items) == 0 {
		return fail("items", errMissing)
	}

	items := make([]domain.OrderLineItem, 0, len(d.Items))
	for i, it := range d.Items {
		field := fmt.Sprintf("items.%d", i)
		if it.ProductID == "" {
			return fail(field+".product_id", errMissing)
		}
		if it.Quantity < 1 {
			return fail(field+".quantity", fmt.Errorf("must be positive, got %d", it.Quantity))
		}
		price, err := decodeDecimal(it.PricePerUnit)
		if err != nil {
			return fail(field+".price_per_unit", err)
		}
		items = append(items, domain.OrderLineItem{ProductID: it.ProductID, Quantity: it.Quantity, PricePerUnit: price})
	}

	total, err := decodeDecimal(d.TotalPrice)
	if err != nil {
		return fail("total_price", err)
	}
	// Orders written before the charge was stored separately only carry the total.
	charge, err := decodeDecimal(d.DeliveryCharge)
	if err != nil && !errors.Is(err, errMissing) {
		return fail("delivery_charge", err)
	}

	return domain.Order{
		ID:                d.ID.Hex(),
		UserID:            d.UserID,
		Items:             items,
		DeliveryCharge:    charge,
		TotalPrice:        total,
		Status:            status,
		CustomerName:      d.CustomerName,
		CustomerEmail:     d.CustomerEmail,
		DeliveryAddress:   d.DeliveryAddress,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		EstimatedDelivery: d.EstimatedDelivery,
		CurrentLocation:   domain.Location{Lat: d.CurrentLocation.Lat, Lng: d.CurrentLocation.Lng},
	}, nil
}

func (d adminDocument) toDomain() (domain.AdminUser, error) {
	if d.Email == "" {
		return domain.AdminUser{}, &DecodeError{Collection: adminsCollection, ID: d.ID.Hex(), Field: "email", Err: errMissing}
	}
	if d.Role != domain.RoleAdmin {
		return domain.AdminUser{}, &DecodeError{Collection: adminsCollection, ID: d.ID.Hex(), Field: "role", Err: fmt.Errorf("unexpected role %q", d.Role)}
	}
	return domain.AdminUser{ID: d.ID.Hex(), Email: d.Email, Role: d.Role, CreatedAt: d.CreatedAt}, nil
}

func (d accountDocument) toAccount() Account {
	return Account{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func productFields(p domain.Product) (bson.M, error) {
	price, err := encodeDecimal(p.Price)
	if err != nil {
		return nil, fmt.Errorf("encode price: %w", err)
	}
	return bson.M{
		"name":       p.Name,
		"price":      price,
		"category":   p.Category,
		"image_url":  p.ImageURL,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}, nil
}

func orderFields(o domain.Order) (bson.M, error) {
	items := make(bson.A, 0, len(o.Items))
	for _, it := range o.Items {
		price, err := encodeDecimal(it.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("encode price_per_unit: %w", err)
		}
		items = append(items, bson.M{
			"product_id":     it.ProductID,
			"quantity":       it.Quantity,
			"price_per_unit": price,
		})
	}
	charge, err := encodeDecimal(o.DeliveryCharge)
	if err != nil {
		return nil, fmt.Errorf("encode delivery_charge: %w", err)
	}
	total, err := encodeDecimal(o.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("encode total_price: %w", err)
	}

	return bson.M{
		"user_id":            o.UserID,
		"items":              items,
		"delivery_charge":    charge,
		"total_price":        total,
		"status":             string(o.Status),
		"customer_name":      o.CustomerName,
		"customer_email":     o.CustomerEmail,
		"delivery_address":   o.DeliveryAddress,
		"created_at":         o.CreatedAt,
		"updated_at":         o.UpdatedAt,
		"estimated_delivery": o.EstimatedDelivery,
		"current_location":   bson.M{"lat": o.CurrentLocation.Lat, "lng": o.CurrentLocation.Lng},
	}, nil
}
