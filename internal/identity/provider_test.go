package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"greengrocer-backend/internal/store"
)

func setupProvider(t *testing.T, revoker Revoker) *Provider {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	p := NewProvider(store.NewMemoryStore(), NewTokens("test-secret", time.Hour), revoker, logger)
	p.SetHashCost(bcrypt.MinCost)
	return p
}

func register(t *testing.T, p *Provider) store.Account {
	t.Helper()
	acc, err := p.Register(context.Background(), RegisterInput{Name: "Jo", Email: " Jo@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	return acc
}

func TestRegisterAndLogin(t *testing.T) {
	p := setupProvider(t, NewMemoryRevoker())
	ctx := context.Background()

	acc := register(t, p)
	assert.Equal(t, "jo@example.com", acc.Email)
	assert.NotEqual(t, "secret123", acc.PasswordHash)

	sess, err := p.Login(ctx, "JO@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, acc.ID, sess.Identity.ID)

	id, err := p.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: acc.ID, Email: "jo@example.com"}, id)
	assert.Equal(t, acc.ID, id.OwnerID())
}

func TestRegister_Rejects(t *testing.T) {
	p := setupProvider(t, NewMemoryRevoker())
	ctx := context.Background()
	register(t, p)

	_, err := p.Register(ctx, RegisterInput{Email: "jo@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = p.Register(ctx, RegisterInput{Email: "not-an-email", Password: "another1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Register(ctx, RegisterInput{Email: "new@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	p := setupProvider(t, NewMemoryRevoker())
	register(t, p)

	_, err := p.Login(context.Background(), "jo@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_BadTokens(t *testing.T) {
	p := setupProvider(t, NewMemoryRevoker())
	ctx := context.Background()

	_, err := p.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens("other-secret", time.Hour)
	forged, _, err := other.Issue(Identity{ID: "x", Email: "x@example.com"}, time.Now())
	require.NoError(t, err)
	_, err = p.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := p.tokens.Issue(Identity{ID: "x"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = p.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOut_RevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	for name, revoker := range map[string]Revoker{
		"memory": NewMemoryRevoker(),
		"redis":  NewRedisRevoker(client),
	} {
		t.Run(name, func(t *testing.T) {
			p := setupProvider(t, revoker)
			ctx := context.Background()
			register(t, p)

			sess, err := p.Login(ctx, "jo@example.com", "secret123")
			require.NoError(t, err)
			require.NoError(t, p.SignOut(ctx, sess.Token))

			_, err = p.Authenticate(ctx, sess.Token)
			assert.ErrorIs(t, err, ErrTokenRevoked)

			fresh, err := p.Login(ctx, "jo@example.com", "secret123")
			require.NoError(t, err)
			_, err = p.Authenticate(ctx, fresh.Token)
			assert.NoError(t, err)
		})
	}
}

func TestRedisRevoker_ExpiresWithToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	r := NewRedisRevoker(client)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKey("jti-2")))
}

func TestAnonymous(t *testing.T) {
	assert.True(t, Anonymous.IsAnonymous())
	assert.Equal(t, "anonymous", Anonymous.OwnerID())
}
