package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"MONGO_PUBLIC_URL", "MONGO_URL", "STORE_DRIVER", "DELIVERY_CHARGE", "TOKEN_TTL", "CORS_ORIGINS", "PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.True(t, decimal.NewFromInt(12).Equal(cfg.DeliveryCharge))
	assert.Equal(t, 10*time.Minute, cfg.DeliveryLeadTime)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoad_MongoURIFallbackOrder(t *testing.T) {
	t.Setenv("MONGO_PUBLIC_URL", "")
	t.Setenv("MONGO_URL", "mongodb://internal:27017")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://internal:27017", cfg.MongoURI)

	t.Setenv("MONGO_PUBLIC_URL", "mongodb://public:27017")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://public:27017", cfg.MongoURI)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DELIVERY_CHARGE", "15.50")
	t.Setenv("DELIVERY_LEAD_TIME", "45m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "15.5", cfg.DeliveryCharge.String())
	assert.Equal(t, 45*time.Minute, cfg.DeliveryLeadTime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":    "postgres",
		"DELIVERY_CHARGE": "free",
		"TOKEN_TTL":       "forever",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}

	t.Run("negative charge", func(t *testing.T) {
		t.Setenv("DELIVERY_CHARGE", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
