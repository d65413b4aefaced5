package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greengrocer-backend/internal/cart"
)

type cartView struct {
	Items      []cart.Entry `json:"items"`
	TotalUnits int          `json:"totalUnits"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{Items: c.Entries(), TotalUnits: c.TotalUnits()}
}

// mutateCart loads the session cart, applies fn and saves the result.
func (s *Server) mutateCart(c *gin.Context, fn func(*cart.Cart)) {
	ctx := c.Request.Context()
	sessionID := c.GetString(sessionKey)

	current, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	fn(current)
	if err := s.carts.Save(ctx, sessionID, current); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(current))
}

func (s *Server) getCart(c *gin.Context) {
	current, err := s.carts.Load(c.Request.Context(), c.GetString(sessionKey))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(current))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	s.mutateCart(c, func(ct *cart.Cart) { ct.AddItem(req.ProductID) })
}

func (s *Server) updateCartQuantity(c *gin.Context) {
	d := cart.Direction(c.Param("direction"))
	if d != cart.Increment && d != cart.Decrement {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be increment or decrement"})
		return
	}
	productID := c.Param("productId")
	s.mutateCart(c, func(ct *cart.Cart) { ct.UpdateQuantity(productID, d) })
}

func (s *Server) removeCartItem(c *gin.Context) {
	productID := c.Param("productId")
	s.mutateCart(c, func(ct *cart.Cart) { ct.RemoveItem(productID) })
}

func (s *Server) clearCart(c *gin.Context) {
	s.mutateCart(c, func(ct *cart.Cart) { ct.Clear() })
}
