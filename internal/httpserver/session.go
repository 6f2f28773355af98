package httpserver

import (
	"github.com/gin-gonic/gin"

	sessionsvc "folik-store/internal/service/session"
)

const sessionKeyContext = "sessionKey"

// sessionMiddleware guarantees a session key exists before any handler in the
// chain runs: a missing or malformed cookie is replaced with a freshly minted
// key, which is set on the response and stored in the request context.
func sessionMiddleware(svc *sessionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(svc.CookieName())
		if err != nil || !svc.Valid(key) {
			key = svc.Mint()
			c.SetCookie(svc.CookieName(), key, svc.TTLSeconds(), "/", "", false, true)
		}
		c.Set(sessionKeyContext, key)
		c.Next()
	}
}

func sessionKey(c *gin.Context) string {
	return c.GetString(sessionKeyContext)
}
