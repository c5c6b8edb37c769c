package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminController maintains the catalog and staff list.
type AdminController struct {
	Catalog *services.CatalogService
	Menu    *services.MenuService
	Staff   *services.StaffService
	Audit   *services.AuditService
}

func NewAdminController(catalog *services.CatalogService, menu *services.MenuService, staff *services.StaffService, audit *services.AuditService) *AdminController {
	return &AdminController{Catalog: catalog, Menu: menu, Staff: staff, Audit: audit}
}

// ---------------------------
// Payload / DTOs
// ---------------------------

type roomPayload struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

type tablePayload struct {
	Number  uint  `json:"number" form:"number" binding:"required"`
	RoomID  uint  `json:"room_id" form:"room_id" binding:"required"`
	PartyID *uint `json:"party_id" form:"party_id"`
}

type tablePartyPayload struct {
	PartyID *uint `json:"party_id" form:"party_id"`
}

type coursePayload struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Ordering uint   `json:"ordering" form:"ordering"`
}

type tagPayload struct {
	Label string `json:"label" form:"label" binding:"required"`
	Name  string `json:"name" form:"name" binding:"required"`
}

type menuItemPayload struct {
	Name           string      `json:"name" form:"name" binding:"required"`
	CourseID       uint        `json:"course_id" form:"course_id" binding:"required"`
	Description    string      `json:"description" form:"description"`
	Price          json.Number `json:"price" form:"price"`
	ModifierIDs    []uint      `json:"modifier_ids" form:"modifier_ids"`
	TemperatureIDs []uint      `json:"temperature_ids" form:"temperature_ids"`
}

type partyPayload struct {
	Name string `json:"name" form:"name" binding:"required"`
	Slug string `json:"slug" form:"slug"`
}

type partyMenuItemPayload struct {
	MenuItemID    uint        `json:"menu_item_id" form:"menu_item_id" binding:"required"`
	Available     *bool       `json:"available" form:"available"`
	PriceOverride json.Number `json:"price_override" form:"price_override"`
}

type staffPayload struct {
	Name string `json:"name" form:"name" binding:"required"`
	Code string `json:"code" form:"code" binding:"required"`
}

type staffCodePayload struct {
	Code string `json:"code" form:"code" binding:"required"`
}

func bindPayload(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		log.Printf("❌ BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func parsePrice(raw json.Number, field string) (decimal.NullDecimal, bool, string) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return decimal.NullDecimal{}, true, ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false, field + " must be a decimal number"
	}
	return decimal.NewNullDecimal(d), true, ""
}

// ---------------------------
// Rooms & tables
// ---------------------------

func (ac *AdminController) ListRooms(c *gin.Context) {
	rooms, err := ac.Catalog.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ac *AdminController) CreateRoom(c *gin.Context) {
	var p roomPayload
	if !bindPayload(c, &p) {
		return
	}
	room, err := ac.Catalog.CreateRoom(c.Request.Context(), p.Name, p.Description)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ac *AdminController) CreateTable(c *gin.Context) {
	var p tablePayload
	if !bindPayload(c, &p) {
		return
	}
	if p.PartyID != nil && *p.PartyID == 0 {
		p.PartyID = nil
	}
	table, err := ac.Catalog.CreateTable(c.Request.Context(), services.CreateTableInput{
		Number:  p.Number,
		RoomID:  p.RoomID,
		PartyID: p.PartyID,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, table)
}

func (ac *AdminController) AssignTableParty(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "table")
		return
	}
	var p tablePartyPayload
	if !bindPayload(c, &p) {
		return
	}
	if p.PartyID != nil && *p.PartyID == 0 {
		p.PartyID = nil
	}
	table, err := ac.Catalog.AssignTableToParty(c.Request.Context(), id, p.PartyID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, table)
}

func (ac *AdminController) DeleteTable(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "table")
		return
	}
	if err := ac.Catalog.DeleteTable(c.Request.Context(), id); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Table deleted"})
}

// ---------------------------
// Courses & tags
// ---------------------------

func (ac *AdminController) ListCourses(c *gin.Context) {
	courses, err := ac.Catalog.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, courses)
}

func (ac *AdminController) CreateCourse(c *gin.Context) {
	var p coursePayload
	if !bindPayload(c, &p) {
		return
	}
	course, err := ac.Catalog.CreateCourse(c.Request.Context(), p.Name, p.Ordering)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, course)
}

func (ac *AdminController) ListModifiers(c *gin.Context) {
	mods, err := ac.Menu.ListModifiers(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, mods)
}

func (ac *AdminController) CreateModifier(c *gin.Context) {
	var p tagPayload
	if !bindPayload(c, &p) {
		return
	}
	mod, err := ac.Catalog.CreateModifier(c.Request.Context(), p.Label, p.Name)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, mod)
}

func (ac *AdminController) ListTemperatures(c *gin.Context) {
	temps, err := ac.Menu.ListTemperatures(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, temps)
}

func (ac *AdminController) CreateTemperature(c *gin.Context) {
	var p tagPayload
	if !bindPayload(c, &p) {
		return
	}
	temp, err := ac.Catalog.CreateTemperature(c.Request.Context(), p.Label, p.Name)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, temp)
}

// ---------------------------
// Menu items
// ---------------------------

func (ac *AdminController) ListMenuItems(c *gin.Context) {
	items, err := ac.Catalog.ListMenuItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (ac *AdminController) CreateMenuItem(c *gin.Context) {
	var p menuItemPayload
	if !bindPayload(c, &p) {
		return
	}
	price, ok, msg := parsePrice(p.Price, "price")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}
	if !utils.IsJSON(c) {
		p.ModifierIDs = utils.FormIDs(c, "modifier_ids")
		p.TemperatureIDs = utils.FormIDs(c, "temperature_ids")
	}

	item, err := ac.Catalog.CreateMenuItem(c.Request.Context(), services.CreateMenuItemInput{
		Name:           p.Name,
		CourseID:       p.CourseID,
		Description:    p.Description,
		Price:          price.Decimal,
		ModifierIDs:    p.ModifierIDs,
		TemperatureIDs: p.TemperatureIDs,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

func (ac *AdminController) DeleteMenuItem(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "menu item")
		return
	}
	if err := ac.Catalog.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Menu item deleted"})
}

// ---------------------------
// Parties
// ---------------------------

func (ac *AdminController) ListParties(c *gin.Context) {
	parties, err := ac.Catalog.ListParties(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, parties)
}

func (ac *AdminController) CreateParty(c *gin.Context) {
	var p partyPayload
	if !bindPayload(c, &p) {
		return
	}
	staff, _ := middleware.CurrentStaff(c)
	party, err := ac.Catalog.CreateParty(c.Request.Context(), p.Name, p.Slug, staff.StaffName)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, party)
}

// SetPartyMenuItem (POST /admin/parties/:id/menu-items) adds an item to the
// party's menu or updates its availability and price override.
func (ac *AdminController) SetPartyMenuItem(c *gin.Context) {
	partyID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "party")
		return
	}
	var p partyMenuItemPayload
	if !bindPayload(c, &p) {
		return
	}
	override, ok, msg := parsePrice(p.PriceOverride, "price_override")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}
	available := true
	if p.Available != nil {
		available = *p.Available
	}

	link, err := ac.Catalog.SetPartyMenuItem(c.Request.Context(), partyID, services.PartyMenuItemInput{
		MenuItemID:    p.MenuItemID,
		Available:     available,
		PriceOverride: override,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"data":            link,
		"effective_price": link.EffectivePrice(),
	})
}

// ---------------------------
// Staff & audit
// ---------------------------

func (ac *AdminController) ListStaff(c *gin.Context) {
	staff, err := ac.Staff.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, staff)
}

func (ac *AdminController) CreateStaff(c *gin.Context) {
	var p staffPayload
	if !bindPayload(c, &p) {
		return
	}
	staff, err := ac.Staff.Create(c.Request.Context(), p.Name, p.Code)
	if err != nil {
		respondError(c, err, "")
		return
	}
	ac.Audit.Record(c.Request.Context(), middleware.CurrentStaffID(c), "created staff member "+staff.Name,
		map[string]any{"staff_id": staff.ID})
	utils.JSONSuccess(c, http.StatusCreated, staff)
}

// SetStaffCode (PUT /admin/staff/:id/code) replaces a staff member's code.
func (ac *AdminController) SetStaffCode(c *gin.Context) {
	staffID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "staff")
		return
	}
	var p staffCodePayload
	if !bindPayload(c, &p) {
		return
	}
	if err := ac.Staff.SetCode(c.Request.Context(), staffID, p.Code); err != nil {
		respondError(c, err, "")
		return
	}
	staff, err := ac.Staff.GetByID(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	ac.Audit.Record(c.Request.Context(), middleware.CurrentStaffID(c), "changed code of staff member "+staff.Name,
		map[string]any{"staff_id": staff.ID})
	utils.JSONSuccess(c, http.StatusOK, staff)
}

// ListLogs (GET /admin/logs?limit=) shows the newest audit entries.
func (ac *AdminController) ListLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := ac.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, logs)
}
