package middleware

import (
	"net/http"
	"strings"

	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const SessionHeader = "X-Session-Token"

// RequireSession resolves the session named by the request's token and
// attaches it to the context.
func RequireSession(signer *session.Signer, registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerOrHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		sid, _, err := signer.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		sess, found := registry.Get(sid)
		if !found {
			log.WithField("session", sid).Debug("[SESSION] token for unknown or expired session")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		session.Attach(c, sess)
		c.Next()
	}
}

// bearerOrHeader returns ok=false when no token was sent at all and an
// empty token when the Authorization header is malformed.
func bearerOrHeader(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", true
		}
		return parts[1], true
	}

	if t := c.GetHeader(SessionHeader); t != "" {
		return t, true
	}
	return "", false
}
