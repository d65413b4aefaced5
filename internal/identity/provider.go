package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"greengrocer-backend/internal/store"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"user"`
}

type Provider struct {
	accounts store.AccountStore
	tokens   *Tokens
	revoked  Revoker
	cost     int
	now      func() time.Time
	log      logrus.FieldLogger
}

func NewProvider(accounts store.AccountStore, tokens *Tokens, revoked Revoker, log logrus.FieldLogger) *Provider {
	return &Provider{
		accounts: accounts,
		tokens:   tokens,
		revoked:  revoked,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		log:      log,
	}
}

// SetHashCost overrides the bcrypt cost; tests lower it to bcrypt.MinCost.
func (p *Provider) SetHashCost(cost int) {
	p.cost = cost
}

func (p *Provider) Register(ctx context.Context, in RegisterInput) (store.Account, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return store.Account{}, fmt.Errorf("%w: invalid email", ErrInvalidCredentials)
	}
	if len(in.Password) < minPasswordLength {
		return store.Account{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return store.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	acc, err := p.accounts.CreateAccount(ctx, store.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hashed),
		CreatedAt:    p.now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return store.Account{}, ErrEmailTaken
	}
	if err != nil {
		return store.Account{}, err
	}

	p.log.WithField("user_id", acc.ID).Info("account registered")
	return acc, nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (Session, error) {
	acc, found, err := p.accounts.FindAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Session{}, err
	}
	if !found {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	id := Identity{ID: acc.ID, Email: acc.Email}
	token, expires, err := p.tokens.Issue(id, p.now())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, Identity: id}, nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
func (p *Provider) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return Anonymous, err
	}
	revoked, err := p.revoked.IsRevoked(ctx, claims.Id)
	if err != nil {
		return Anonymous, err
	}
	if revoked {
		return Anonymous, ErrTokenRevoked
	}
	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// SignOut revokes the token for the rest of its lifetime.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return err
	}
	if err := p.revoked.Revoke(ctx, claims.Id, time.Unix(claims.ExpiresAt, 0)); err != nil {
		return err
	}
	p.log.WithField("user_id", claims.UserID).Info("signed out")
	return nil
}

func (p *Provider) Account(ctx context.Context, id Identity) (store.Account, bool, error) {
	return p.accounts.GetAccount(ctx, id.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
