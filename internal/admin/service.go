// Package admin holds the operations reserved for administrators: product
// maintenance, admin provisioning and order status changes.
package admin

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"greengrocer-backend/internal/domain"
	"greengrocer-backend/internal/identity"
	"greengrocer-backend/internal/order"
	"greengrocer-backend/internal/store"
)

type Service struct {
	catalog store.CatalogStore
	admins  store.AdminStore
	orders  *order.Service
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewService(catalog store.CatalogStore, admins store.AdminStore, orders *order.Service, log logrus.FieldLogger) *Service {
	return &Service{
		catalog: catalog,
		admins:  admins,
		orders:  orders,
		now:     time.Now,
		log:     log,
	}
}

// IsAdmin reports whether the identity's email is a provisioned admin.
func (s *Service) IsAdmin(ctx context.Context, actor identity.Identity) (bool, error) {
	if actor.IsAnonymous() || actor.Email == "" {
		return false, nil
	}
	_, found, err := s.admins.FindAdminByEmail(ctx, normalizeEmail(actor.Email))
	return found, err
}

func (s *Service) authorize(ctx context.Context, actor identity.Identity) error {
	ok, err := s.IsAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// ----- Products -----

func (s *Service) CreateProduct(ctx context.Context, actor identity.Identity, in ProductInput) (domain.Product, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return domain.Product{}, err
	}

	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" {
		return domain.Product{}, invalid("name", "is required")
	}
	if category == "" {
		return domain.Product{}, invalid("category", "is required")
	}
	price, err := in.Price.Decimal()
	if err != nil {
		return domain.Product{}, err
	}

	now := s.now().UTC()
	p := domain.Product{
		Name:      name,
		Price:     price,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		p.ImageURL = &img
	}

	created, err := s.catalog.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(logrus.Fields{"product_id": created.ID, "admin": actor.Email}).Info("product created")
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actor identity.Identity, id string, in ProductPatchInput) (domain.Product, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return domain.Product{}, err
	}

	patch := store.ProductPatch{UpdatedAt: s.now().UTC()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Product{}, invalid("name", "must not be empty")
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return domain.Product{}, invalid("category", "must not be empty")
		}
		patch.Category = &category
	}
	if in.Price != nil {
		price, err := in.Price.Decimal()
		if err != nil {
			return domain.Product{}, err
		}
		patch.Price = &price
	}
	if in.ImageURL != nil {
		img := strings.TrimSpace(*in.ImageURL)
		patch.ImageURL = &img
	}

	updated, err := s.catalog.UpdateProduct(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(logrus.Fields{"product_id": id, "admin": actor.Email}).Info("product updated")
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actor identity.Identity, id string) error {
	if err := s.authorize(ctx, actor); err != nil {
		return err
	}
	err := s.catalog.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"product_id": id, "admin": actor.Email}).Info("product deleted")
	return nil
}

// ----- Admin users -----

func (s *Service) ProvisionAdmin(ctx context.Context, actor identity.Identity, email string) (domain.AdminUser, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return domain.AdminUser{}, err
	}
	a, err := s.createAdmin(ctx, email)
	if err != nil {
		return domain.AdminUser{}, err
	}
	s.log.WithFields(logrus.Fields{"email": a.Email, "admin": actor.Email}).Info("admin user provisioned")
	return a, nil
}

func (s *Service) ListAdmins(ctx context.Context, actor identity.Identity) ([]domain.AdminUser, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}
	return s.admins.ListAdminUsers(ctx)
}

// EnsureDefaultAdmin seeds the first administrator at start-up. It does
// nothing when the email is already provisioned.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	_, err := s.createAdmin(ctx, email)
	if errors.Is(err, ErrAdminExists) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.WithField("email", normalizeEmail(email)).Info("default admin provisioned")
	return nil
}

func (s *Service) createAdmin(ctx context.Context, email string) (domain.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.AdminUser{}, invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.AdminUser{}, invalid("email", "is not a valid address")
	}

	a, err := s.admins.CreateAdminUser(ctx, email, s.now().UTC())
	if errors.Is(err, store.ErrDuplicate) {
		return domain.AdminUser{}, ErrAdminExists
	}
	return a, err
}

// ----- Orders -----

func (s *Service) ListOrders(ctx context.Context, actor identity.Identity) ([]domain.Order, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}
	return s.orders.All(ctx)
}

// SetOrderStatus accepts any of the four statuses regardless of the current one.
func (s *Service) SetOrderStatus(ctx context.Context, actor identity.Identity, id, status string, location *domain.Location) (domain.Order, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return domain.Order{}, err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Order{}, invalid("status", err.Error())
	}
	return s.orders.SetStatus(ctx, id, st, location)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
