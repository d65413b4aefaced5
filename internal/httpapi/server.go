// Package httpapi exposes the grocery backend over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"greengrocer-backend/internal/admin"
	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/catalog"
	"greengrocer-backend/internal/identity"
	"greengrocer-backend/internal/order"
)

type Deps struct {
	Catalog     *catalog.Service
	Orders      *order.Service
	Admin       *admin.Service
	Identity    *identity.Provider
	Carts       cart.SessionStore
	Log         logrus.FieldLogger
	CORSOrigins []string
	SessionTTL  time.Duration
}

type Server struct {
	catalog    *catalog.Service
	orders     *order.Service
	admin      *admin.Service
	identity   *identity.Provider
	carts      cart.SessionStore
	log        logrus.FieldLogger
	sessionTTL time.Duration
	engine     *gin.Engine
}

func New(d Deps) *Server {
	s := &Server{
		catalog:    d.Catalog,
		orders:     d.Orders,
		admin:      d.Admin,
		identity:   d.Identity,
		carts:      d.Carts,
		log:        d.Log,
		sessionTTL: d.SessionTTL,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID, s.requestLogger)
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", sessionHeader},
			ExposeHeaders:    []string{sessionHeader, requestIDHeader},
			AllowCredentials: true,
		}))
	}
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api", s.identify)

	// Auth
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	// Products
	api.GET("/products", s.listProducts)

	// Cart
	carts := api.Group("/cart", s.session)
	{
		carts.GET("", s.getCart)
		carts.POST("/items", s.addToCart)
		carts.POST("/items/:productId/:direction", s.updateCartQuantity)
		carts.DELETE("/items/:productId", s.removeCartItem)
		carts.POST("/clear", s.clearCart)
	}

	// Orders
	api.POST("/orders", s.session, s.placeOrder)
	api.GET("/orders/:orderId", s.trackOrder)

	// User
	auth := api.Group("", requireAuth)
	{
		auth.POST("/logout", s.logout)
		auth.GET("/user/profile", s.getProfile)
		auth.GET("/orders", s.getOrders)
	}

	// Admin
	adm := api.Group("/admin", requireAuth)
	{
		adm.GET("/orders", s.adminListOrders)
		adm.PUT("/orders/:orderId/status", s.adminSetOrderStatus)
		adm.POST("/products", s.adminCreateProduct)
		adm.PUT("/products/:productId", s.adminUpdateProduct)
		adm.DELETE("/products/:productId", s.adminDeleteProduct)
		adm.GET("/users", s.adminListUsers)
		adm.POST("/users", s.adminCreateUser)
	}
}

// Handler returns the router wrapped with OpenTelemetry instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "greengrocer")
}
