package controllers

import (
	"net/http"

	"inventaris_admin/app"

	"github.com/gin-gonic/gin"
)

// GET /api/dashboard
func (s *Srv) DashboardSummary(c *gin.Context) {
	sum, err := s.Dashboard.Summary(c.Request.Context(), app.CurrentSession(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
