package controllers

import (
	"net/http"

	"tableside-backend/services"

	"github.com/gin-gonic/gin"
)

type PartyController struct {
	Menu *services.MenuService
}

func NewPartyController(menu *services.MenuService) *PartyController {
	return &PartyController{Menu: menu}
}

// ShowMenu (GET /parties/:slug/menu) lists the items a party serves with the
// price that applies there.
func (pc *PartyController) ShowMenu(c *gin.Context) {
	party, entries, err := pc.Menu.PartyMenu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "party": party, "items": entries})
}
