package order

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/domain"
	"greengrocer-backend/internal/store"
)

type Config struct {
	DeliveryCharge  decimal.Decimal
	LeadTime        time.Duration
	DefaultLocation domain.Location
}

func DefaultConfig() Config {
	return Config{
		DeliveryCharge:  decimal.NewFromInt(12),
		LeadTime:        10 * time.Minute,
		DefaultLocation: domain.DefaultLocation,
	}
}

// CatalogReader is the part of the catalog placement needs.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type PlaceRequest struct {
	// Owner is the signed-in identity id; empty means anonymous.
	Owner    string
	Customer Customer
	Items    []cart.Entry
}

// Tracking is an order together with its derived progress view.
type Tracking struct {
	Order    domain.Order    `json:"order"`
	Progress domain.Progress `json:"progress"`
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	catalog CatalogReader
	orders  store.OrderStore
	cfg     Config
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewService(catalog CatalogReader, orders store.OrderStore, cfg Config, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		orders:  orders,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place prices the cart against the current catalog and persists a pending
// order. Line prices and the total are fixed from here on.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (domain.Order, error) {
	customer, err := validateCustomer(req.Customer)
	if err != nil {
		return domain.Order{}, err
	}
	if len(req.Items) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}
	for _, it := range req.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Order{}, newValidationError("items", "product id is required")
		}
		if it.Quantity < 1 {
			return domain.Order{}, newValidationError("items", "quantity must be at least 1")
		}
	}
	entries := cart.FromEntries(req.Items).Entries()

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	lines, dropped := ResolveLines(entries, indexProducts(products))
	for _, id := range dropped {
		s.log.WithField("product_id", id).Warn("dropping cart entry for product no longer in catalog")
	}
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}

	owner := req.Owner
	if owner == "" {
		owner = domain.AnonymousOwner
	}

	now := s.now().UTC()
	o := domain.Order{
		UserID:            owner,
		Items:             lines,
		DeliveryCharge:    s.cfg.DeliveryCharge,
		TotalPrice:        Total(lines, s.cfg.DeliveryCharge),
		Status:            domain.StatusPending,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		DeliveryAddress:   customer.Address,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.Add(s.cfg.LeadTime),
		CurrentLocation:   s.cfg.DefaultLocation,
	}

	id, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = id

	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"owner":    owner,
		"lines":    len(lines),
		"total":    o.TotalPrice.String(),
	}).Info("order placed")
	return o, nil
}

// SetStatus writes any status over any other. The display order is not a
// transition guard; moving backwards is only logged.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status, location *domain.Location) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, newValidationError("status", "must be one of pending, processing, shipped, delivered")
	}

	current, found, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, ErrOrderNotFound
	}

	upd := store.OrderUpdate{Status: status, Location: location, UpdatedAt: s.now().UTC()}
	if err := s.orders.UpdateOrder(ctx, id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	entry := s.log.WithFields(logrus.Fields{"order_id": id, "from": current.Status, "to": status})
	if status.Index() < current.Status.Index() {
		entry.Warn("order status moved backwards")
	} else {
		entry.Info("order status updated")
	}

	current.Status = status
	current.UpdatedAt = upd.UpdatedAt
	if location != nil {
		current.CurrentLocation = *location
	}
	return current, nil
}

// Get reports found=false for unknown ids; that is not an error.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, bool, error) {
	return s.orders.GetOrderByID(ctx, id)
}

func (s *Service) Track(ctx context.Context, id string) (Tracking, bool, error) {
	o, found, err := s.orders.GetOrderByID(ctx, id)
	if err != nil || !found {
		return Tracking{}, found, err
	}
	return Tracking{Order: o, Progress: domain.ProgressOf(o.Status)}, true, nil
}

func (s *Service) ByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.orders.GetOrdersByOwner(ctx, ownerID)
}

func (s *Service) All(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func validateCustomer(c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)

	if c.Name == "" {
		return c, newValidationError("name", "is required")
	}
	if c.Email == "" {
		return c, newValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, newValidationError("email", "is not a valid address")
	}
	if c.Address == "" {
		return c, newValidationError("address", "is required")
	}
	return c, nil
}
