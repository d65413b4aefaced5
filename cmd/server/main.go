package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"greengrocer-backend/internal/admin"
	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/catalog"
	"greengrocer-backend/internal/config"
	"greengrocer-backend/internal/httpapi"
	"greengrocer-backend/internal/identity"
	"greengrocer-backend/internal/logging"
	"greengrocer-backend/internal/order"
	"greengrocer-backend/internal/store"
	"greengrocer-backend/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(os.Stdout, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()

	tp, err := telemetry.InitTracing(log, cfg.EnableTracing, os.Stdout)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise tracing")
	}

	// Storage
	var st store.Store
	var disconnect func(context.Context) error
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		st = store.NewMemoryStore()
	default:
		db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MongoDB")
		}
		mongoStore := store.NewMongoStore(db)
		if err := mongoStore.CreateIndexes(ctx); err != nil {
			log.WithError(err).Fatal("failed to create indexes")
		}
		log.WithField("database", cfg.MongoDBName).Info("connected to MongoDB")
		st = mongoStore
		disconnect = db.Client().Disconnect
	}

	// Sessions and token revocation
	var carts cart.SessionStore = cart.NewMemorySessionStore(cfg.CartSessionTTL)
	var revoker identity.Revoker = identity.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		log.WithField("addr", cfg.RedisAddr).Info("redis ping succeeded")
		carts = cart.NewRedisSessionStore(redisClient, cfg.CartSessionTTL)
		revoker = identity.NewRedisRevoker(redisClient)
	}

	// Services
	catalogSvc := catalog.NewService(st)
	orders := order.NewService(catalogSvc, st, order.Config{
		DeliveryCharge:  cfg.DeliveryCharge,
		LeadTime:        cfg.DeliveryLeadTime,
		DefaultLocation: order.DefaultConfig().DefaultLocation,
	}, log)
	adminSvc := admin.NewService(st, st, orders, log)
	if err := adminSvc.EnsureDefaultAdmin(ctx, cfg.DefaultAdminEmail); err != nil {
		log.WithError(err).Fatal("failed to provision default admin")
	}
	provider := identity.NewProvider(st, identity.NewTokens(cfg.JWTSecret, cfg.TokenTTL), revoker, log)

	api := httpapi.New(httpapi.Deps{
		Catalog:     catalogSvc,
		Orders:      orders,
		Admin:       adminSvc,
		Identity:    provider,
		Carts:       carts,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		SessionTTL:  cfg.CartSessionTTL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
		log.WithError(err).Error("tracer shutdown failed")
	}
	if disconnect != nil {
		if err := disconnect(shutdownCtx); err != nil {
			log.WithError(err).Error("mongo disconnect failed")
		}
	}
	log.Info("server stopped")
}
