package routes

import (
	"inventaris_admin/app"
	"inventaris_admin/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	itemCtl := controllers.NewItemController(s)
	loanCtl := controllers.NewLoanController(s)

	// 复用的中间件
	authMW := app.SessionRequired(a.Sessions, a.Items)

	// ------------------------------
	// 登录 / 登出（公开）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/session", authMW, authCtl.Session)
	}

	api := r.Group("/api", authMW)
	{
		api.GET("/items", itemCtl.ListItems) // ?page=&size=

		api.GET("/loans", loanCtl.ListLoans) // ?page=&size=&status=
		api.POST("/loans", loanCtl.CreateLoan)
		api.PUT("/loans/:id", loanCtl.EditLoan)
		api.PUT("/loans/:id/status", loanCtl.ChangeStatus)
		api.GET("/loans/:id/events", loanCtl.Events)

		api.GET("/loan-history", loanCtl.History)
		api.GET("/dashboard", s.DashboardSummary)
	}
}
