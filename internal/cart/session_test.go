package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	c := New()
	c.AddItem("apple")
	c.UpdateQuantity("apple", Increment)
	require.NoError(t, store.Save(ctx, "s1", c))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Quantity("apple"))

	other, err := store.Load(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestMemorySessionStore_LoadedCartIsIndependent(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	c := New()
	c.AddItem("apple")
	require.NoError(t, store.Save(ctx, "s1", c))
	c.UpdateQuantity("apple", Increment)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Quantity("apple"))
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	c := New()
	c.AddItem("apple")
	require.NoError(t, store.Save(ctx, "s1", c))

	now = now.Add(2 * time.Minute)
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	c := New()
	c.AddItem("apple")
	require.NoError(t, store.Save(ctx, "s1", c))
	require.NoError(t, store.Delete(ctx, "s1"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
