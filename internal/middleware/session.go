package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the visitor's session ID.
// The session ID is the only key into the cart's session slot.
const SessionCookieName = "bytex_session"

const sessionCookieMaxAge = 7 * 24 * 60 * 60 // matches the Redis slot TTL

// SessionMiddleware ensures every request has a session ID, minting a
// new one (and setting the cookie) for first-time visitors. The ID is
// placed into the gin context under "sessionID".
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(SessionCookieName, sid, sessionCookieMaxAge, "/", "", false, true)
		}

		c.Set("sessionID", sid)
		c.Next()
	}
}
