package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greengrocer-backend/internal/identity"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionHeader   = "X-Session-ID"
	sessionCookie   = "gg_session"

	requestIDKey = "requestId"
	identityKey  = "identity"
	tokenKey     = "token"
	sessionKey   = "sessionId"
)

func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	entry := s.log.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"status":     c.Writer.Status(),
		"latency_ms": time.Since(start).Milliseconds(),
		"request_id": c.GetString(requestIDKey),
	})
	switch {
	case c.Writer.Status() >= http.StatusInternalServerError:
		entry.Error("request failed")
	default:
		entry.Debug("request served")
	}
}

// identify resolves the bearer token, if any. Requests without one continue
// as the anonymous visitor; a bad token is rejected.
func (s *Server) identify(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.Set(identityKey, identity.Anonymous)
		c.Next()
		return
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	id, err := s.identity.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "detail": err.Error()})
		return
	}
	c.Set(identityKey, id)
	c.Set(tokenKey, token)
	c.Next()
}

func requireAuth(c *gin.Context) {
	if currentIdentity(c).IsAnonymous() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	c.Next()
}

// session attaches the browsing session id, minting one on first use.
func (s *Server) session(c *gin.Context) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			id = cookie
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", false, true)
	c.Header(sessionHeader, id)
	c.Set(sessionKey, id)
	c.Next()
}

func currentIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Anonymous
}
