package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greengrocer-backend/internal/admin"
	"greengrocer-backend/internal/domain"
)

func (s *Server) adminListOrders(c *gin.Context) {
	orders, err := s.admin.ListOrders(c.Request.Context(), currentIdentity(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type statusRequest struct {
	Status   string           `json:"status"`
	Location *domain.Location `json:"location"`
}

func (s *Server) adminSetOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	updated, err := s.admin.SetOrderStatus(c.Request.Context(), currentIdentity(c), c.Param("orderId"), req.Status, req.Location)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order status updated", "order": updated})
}

func (s *Server) adminCreateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	product, err := s.admin.CreateProduct(c.Request.Context(), currentIdentity(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) adminUpdateProduct(c *gin.Context) {
	var in admin.ProductPatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	product, err := s.admin.UpdateProduct(c.Request.Context(), currentIdentity(c), c.Param("productId"), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	if err := s.admin.DeleteProduct(c.Request.Context(), currentIdentity(c), c.Param("productId")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (s *Server) adminListUsers(c *gin.Context) {
	admins, err := s.admin.ListAdmins(c.Request.Context(), currentIdentity(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

type adminUserRequest struct {
	Email string `json:"email"`
}

func (s *Server) adminCreateUser(c *gin.Context) {
	var req adminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	created, err := s.admin.ProvisionAdmin(c.Request.Context(), currentIdentity(c), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
