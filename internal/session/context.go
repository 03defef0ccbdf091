package session

import "github.com/gin-gonic/gin"

const (
	ContextKey   = "session"
	ContextIDKey = "sessionID"
)

// FromContext returns the session attached by the session middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

func Attach(c *gin.Context, s *Session) {
	c.Set(ContextKey, s)
	c.Set(ContextIDKey, s.ID)
}
