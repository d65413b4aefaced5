package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"greengrocer-backend/internal/domain"
)

// MemoryStore implements Store in process memory. Records are copied on the
// way in and out so callers never share slices with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	admins   map[string]domain.AdminUser
	accounts map[string]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		admins:   make(map[string]domain.AdminUser),
		accounts: make(map[string]Account),
	}
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	s.products[p.ID] = copyProduct(p)
	return copyProduct(p), nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id string, patch ProductPatch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			p.ImageURL = nil
		} else {
			img := *patch.ImageURL
			p.ImageURL = &img
		}
	}
	p.UpdatedAt = patch.UpdatedAt
	s.products[id] = p
	return copyProduct(p), nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o domain.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = uuid.NewString()
	s.orders[o.ID] = copyOrder(o)
	return o.ID, nil
}

func (s *MemoryStore) GetOrderByID(_ context.Context, id string) (domain.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false, nil
	}
	return copyOrder(o), true, nil
}

func (s *MemoryStore) GetOrdersByOwner(_ context.Context, ownerID string) ([]domain.Order, error) {
	return s.filterOrders(func(o domain.Order) bool { return o.UserID == ownerID }), nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	return s.filterOrders(func(domain.Order) bool { return true }), nil
}

func (s *MemoryStore) filterOrders(keep func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) UpdateOrder(_ context.Context, id string, upd OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = upd.Status
	o.UpdatedAt = upd.UpdatedAt
	if upd.Location != nil {
		o.CurrentLocation = *upd.Location
	}
	s.orders[id] = o
	return nil
}

func (s *MemoryStore) ListAdminUsers(_ context.Context) ([]domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AdminUser, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateAdminUser(_ context.Context, email string, createdAt time.Time) (domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return domain.AdminUser{}, ErrDuplicate
		}
	}
	a := domain.AdminUser{ID: uuid.NewString(), Email: email, Role: domain.RoleAdmin, CreatedAt: createdAt}
	s.admins[a.ID] = a
	return a, nil
}

func (s *MemoryStore) FindAdminByEmail(_ context.Context, email string) (domain.AdminUser, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, true, nil
		}
	}
	return domain.AdminUser{}, false, nil
}

func (s *MemoryStore) CreateAccount(_ context.Context, a Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return Account{}, ErrDuplicate
		}
	}
	a.ID = uuid.NewString()
	s.accounts[a.ID] = a
	return a, nil
}

func (s *MemoryStore) FindAccountByEmail(_ context.Context, email string) (Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, true, nil
		}
	}
	return Account{}, false, nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id string) (Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	return a, ok, nil
}

func copyProduct(p domain.Product) domain.Product {
	if p.ImageURL != nil {
		img := *p.ImageURL
		p.ImageURL = &img
	}
	return p
}

func copyOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderLineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
