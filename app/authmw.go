package app

import (
	"net/http"

	"inventaris_admin/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

const sessionKey = "session"

// ClientID is the browser's id from the session cookie, or "".
func ClientID(c *gin.Context) string {
	ck, err := c.Request.Cookie(AppSessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

// Forgetter drops per-client state kept outside the session store.
type Forgetter interface {
	Forget(clientID string)
}

// SessionRequired loads the client's session and rejects missing or expired
// ones, dropping the client's state from f.
func SessionRequired(m *session.Manager, f Forgetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := ClientID(c)
		if cid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		s, err := m.Current(c.Request.Context(), cid)
		if err != nil {
			f.Forget(cid)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}
		if !m.IsValid(s) {
			f.Forget(cid)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "session expired"})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// CurrentSession returns what SessionRequired stored.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
