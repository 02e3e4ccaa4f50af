// controllers/srv.go
package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventaris_admin/app"
	"inventaris_admin/db"
	"inventaris_admin/gateway"
	"inventaris_admin/inventory"
	"inventaris_admin/loan"
	"inventaris_admin/report"
	"inventaris_admin/session"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Sessions  *session.Manager
	Items     *inventory.Reference
	Loans     *loan.Service
	Dashboard *report.Dashboard
	Audit     *db.Repo
	Log       *slog.Logger

	WebOrigin    string
	AssetBaseURL string
	MaxUpload    int64
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Sessions:     a.Sessions,
		Items:        a.Items,
		Loans:        a.Loans,
		Dashboard:    a.Dashboard,
		Audit:        a.Audit,
		Log:          a.Log,
		WebOrigin:    a.Config.WebOrigin,
		AssetBaseURL: a.Config.AssetBaseURL,
		MaxUpload:    a.Config.MaxUploadMB << 20,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, clientID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    clientID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // 删除
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(s.WebOrigin, "https://"),
	})
}

// fail writes err as {"error": ...} with the status its kind maps to.
func (s *Srv) fail(c *gin.Context, err error) {
	code, body := http.StatusInternalServerError, app.H{"error": err.Error()}

	var mf *loan.MissingFieldError
	switch {
	case errors.As(err, &mf):
		code, body = http.StatusBadRequest, app.H{"error": mf.Error(), "field": mf.Field}
	case errors.Is(err, loan.ErrInvalidStatus):
		code = http.StatusBadRequest
	case errors.Is(err, loan.ErrUnknownLoan):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidCredentials):
		code, body = http.StatusUnauthorized, app.H{"error": "invalid credentials"}
	case errors.Is(err, session.ErrUnauthenticated), errors.Is(err, session.ErrNoSession):
		code, body = http.StatusUnauthorized, app.H{"error": "unauthorized"}
	case errors.Is(err, session.ErrMalformedToken):
		code = http.StatusBadGateway
	case errors.Is(err, loan.ErrGatewayRejected):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, loan.ErrGatewayUnavailable):
		code = http.StatusServiceUnavailable
	default:
		// 未经 loan 翻译的网关错误（物品列表、仪表盘）
		switch gateway.KindOf(err) {
		case gateway.KindUnauthorized:
			code, body = http.StatusUnauthorized, app.H{"error": "unauthorized"}
		case gateway.KindRejected, gateway.KindNotFound:
			code = http.StatusUnprocessableEntity
		case gateway.KindUnavailable, gateway.KindDecode:
			code = http.StatusServiceUnavailable
		}
	}
	if msg := gateway.MessageOf(err); msg != "" {
		body["message"] = msg
	}
	if code >= 500 {
		s.Log.Error("request failed", "path", c.FullPath(), "status", code, "err", err)
	}
	c.JSON(code, body)
}

type paging struct{ Page, Size int }

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// 分页参数
func pagingFrom(c *gin.Context) paging {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return paging{Page: page, Size: size}
}

// window returns the slice bounds of the page and the row number of its first row.
func (p paging) window(total int) (from, to, firstNo int) {
	from = (p.Page - 1) * p.Size
	if from > total {
		from = total
	}
	to = from + p.Size
	if to > total {
		to = total
	}
	return from, to, from + 1
}
