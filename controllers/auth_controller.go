package controllers

import (
	"net/http"
	"time"

	"inventaris_admin/app"
	"inventaris_admin/gateway"
	"inventaris_admin/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

func sessionView(s *session.Session) app.H {
	return app.H{
		"user":        s.Profile,
		"displayName": s.Profile.DisplayName(),
		"expiresAt":   s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in gateway.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	// 同一浏览器复用 client id，新登录覆盖旧会话
	cid := app.ClientID(c)
	if _, err := uuid.Parse(cid); err != nil {
		cid = uuid.NewString()
	}

	sess, err := ac.Sessions.Authenticate(c.Request.Context(), cid, in)
	if err != nil {
		ac.fail(c, err)
		return
	}
	ac.setAppCookie(c.Writer, cid, time.Until(sess.ExpiresAt))
	c.JSON(http.StatusOK, sessionView(sess))
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if cid := app.ClientID(c); cid != "" {
		if err := ac.Sessions.Clear(c.Request.Context(), cid); err != nil {
			ac.Log.Warn("clear session", "err", err)
		}
		ac.Items.Forget(cid)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/session
func (ac *AuthController) Session(c *gin.Context) {
	c.JSON(http.StatusOK, sessionView(app.CurrentSession(c)))
}
