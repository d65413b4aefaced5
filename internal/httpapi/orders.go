package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greengrocer-backend/internal/cart"
	"greengrocer-backend/internal/order"
)

type placeOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	// Items overrides the session cart when present.
	Items []cart.Entry `json:"items"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ctx := c.Request.Context()
	sessionID := c.GetString(sessionKey)
	fromSession := req.Items == nil
	items := req.Items
	if fromSession {
		current, err := s.carts.Load(ctx, sessionID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		items = current.Entries()
	}

	placed, err := s.orders.Place(ctx, order.PlaceRequest{
		Owner: currentIdentity(c).OwnerID(),
		Customer: order.Customer{
			Name:    req.Name,
			Email:   req.Email,
			Address: req.Address,
		},
		Items: items,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	if fromSession {
		if err := s.carts.Delete(ctx, sessionID); err != nil {
			s.log.WithError(err).WithField("order_id", placed.ID).Warn("failed to clear cart after order")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "order placed", "orderId": placed.ID, "order": placed})
}

func (s *Server) trackOrder(c *gin.Context) {
	tracking, found, err := s.orders.Track(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": order.ErrOrderNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, tracking)
}

func (s *Server) getOrders(c *gin.Context) {
	orders, err := s.orders.ByOwner(c.Request.Context(), currentIdentity(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
