package middleware

import (
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-gonic/gin"
)

// RequireState lets a request through only while the attached session is in
// one of the allowed checkout states.
func RequireState(allowed ...session.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, exists := session.FromContext(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session missing"})
			return
		}

		state := sess.State()
		for _, s := range allowed {
			if state == s {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": session.ErrCheckoutInProgress.Error()})
	}
}
