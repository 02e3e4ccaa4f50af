package controllers

import (
	"net/http"

	"inventaris_admin/app"
	"inventaris_admin/inventory"
	"inventaris_admin/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type itemRow struct {
	No int `json:"no"`
	models.Item
	ImageURL  string           `json:"image_url,omitempty"`
	Condition models.Condition `json:"condition"`
}

// GET /api/items?page=&size=
func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Items.List(c.Request.Context(), app.CurrentSession(c))
	if err != nil {
		ic.fail(c, err)
		return
	}

	p := pagingFrom(c)
	from, to, no := p.window(len(items))
	rows := make([]itemRow, 0, to-from)
	for i, it := range items[from:to] {
		rows = append(rows, itemRow{
			No:        no + i,
			Item:      it,
			ImageURL:  inventory.ImageURL(ic.AssetBaseURL, it.ImagePath),
			Condition: it.Condition(),
		})
	}
	c.JSON(http.StatusOK, app.H{
		"total": len(items),
		"page":  p.Page,
		"size":  p.Size,
		"items": rows,
	})
}
