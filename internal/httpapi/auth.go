package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"greengrocer-backend/internal/identity"
)

func (s *Server) register(c *gin.Context) {
	var in identity.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	acc, err := s.identity.Register(c.Request.Context(), in)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "id": acc.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	session, err := s.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	isAdmin, err := s.admin.IsAdmin(c.Request.Context(), session.Identity)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.Identity,
		"isAdmin":   isAdmin,
	})
}

func (s *Server) logout(c *gin.Context) {
	if err := s.identity.SignOut(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (s *Server) getProfile(c *gin.Context) {
	id := currentIdentity(c)
	ctx := c.Request.Context()

	acc, found, err := s.identity.Account(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	orders, err := s.orders.ByOwner(ctx, id.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        acc.ID,
			"name":      acc.Name,
			"email":     acc.Email,
			"phone":     acc.Phone,
			"createdAt": acc.CreatedAt,
		},
		"orders": orders,
	})
}
