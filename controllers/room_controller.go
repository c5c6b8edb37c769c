package controllers

import (
	"fmt"
	"net/http"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Catalog *services.CatalogService
	Tickets *services.TicketService
	Audit   *services.AuditService
}

func NewRoomController(catalog *services.CatalogService, tickets *services.TicketService, audit *services.AuditService) *RoomController {
	return &RoomController{Catalog: catalog, Tickets: tickets, Audit: audit}
}

// ----------------------------------------------------
// GET /rooms
// ----------------------------------------------------

func (rc *RoomController) Dashboard(c *gin.Context) {
	rooms, err := rc.Catalog.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	rc.Audit.Record(c.Request.Context(), middleware.CurrentStaffID(c), "opened room dashboard", nil)
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// ----------------------------------------------------
// GET /rooms/:id/tables
// ----------------------------------------------------

func (rc *RoomController) Tables(c *gin.Context) {
	roomID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "room")
		return
	}

	room, tables, err := rc.Catalog.RoomTables(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err, "/rooms")
		return
	}
	rc.Audit.Record(c.Request.Context(), middleware.CurrentStaffID(c),
		fmt.Sprintf("viewed tables for room %s", room.Name),
		map[string]any{"room_id": room.ID},
	)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "room": room, "tables": tables})
}

// ----------------------------------------------------
// GET /rooms/:id/print
// ----------------------------------------------------

func (rc *RoomController) PrintTicket(c *gin.Context) {
	roomID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "room")
		return
	}
	ticket, err := rc.Tickets.RoomTicket(c.Request.Context(), roomID, middleware.CurrentStaffID(c))
	if err != nil {
		respondError(c, err, "/rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}
