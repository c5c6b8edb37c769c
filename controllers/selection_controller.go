package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type SelectionController struct {
	Selections *services.SelectionService
}

func NewSelectionController(selections *services.SelectionService) *SelectionController {
	return &SelectionController{Selections: selections}
}

type addSelectionPayload struct {
	SeatID         uint   `json:"seat_id"`
	ItemID         uint   `json:"item_id"`
	ModifierIDs    []uint `json:"modifier_ids"`
	TemperatureIDs []uint `json:"temperature_ids"`
	Notes          string `json:"notes"`
}

type moveSelectionPayload struct {
	SelectionID  uint `json:"selection_id"`
	TargetSeatID uint `json:"target_seat_id"`
}

var errInvalidPayload = errors.New("Invalid request payload")

// formID reads an optional id field. Blank is 0; anything that is not an id
// cannot name an existing row and is reported as not found.
func formID(c *gin.Context, key, what string) (uint, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, nil
	}
	id, err := utils.ParseID(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %w", what, services.ErrNotFound)
	}
	return id, nil
}

func (sc *SelectionController) readAddPayload(c *gin.Context) (addSelectionPayload, error) {
	var p addSelectionPayload
	if utils.IsJSON(c) {
		if err := c.ShouldBindJSON(&p); err != nil {
			return p, errInvalidPayload
		}
		return p, nil
	}
	var err error
	if p.SeatID, err = formID(c, "seat_id", "seat"); err != nil {
		return p, err
	}
	if p.ItemID, err = formID(c, "item_id", "menu item"); err != nil {
		return p, err
	}
	p.ModifierIDs = utils.FormIDs(c, "modifier_ids")
	p.TemperatureIDs = utils.FormIDs(c, "temperature_ids")
	p.Notes = c.PostForm("notes")
	return p, nil
}

// respondPayloadError answers 400 for a body that could not be read and passes
// anything else to respondError.
func respondPayloadError(c *gin.Context, err error) {
	if errors.Is(err, errInvalidPayload) {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondError(c, err, "")
}

// ----------------------------------------------------
// POST /selections
// ----------------------------------------------------

// Add merges an item into the seat's selection for it: notes append, tags
// accumulate.
func (sc *SelectionController) Add(c *gin.Context) {
	p, err := sc.readAddPayload(c)
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	if p.SeatID == 0 || p.ItemID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "seat_id and item_id are required")
		return
	}

	sel, err := sc.Selections.AddSelection(c.Request.Context(), services.AddSelectionInput{
		SeatID:         p.SeatID,
		ItemID:         p.ItemID,
		ModifierIDs:    p.ModifierIDs,
		TemperatureIDs: p.TemperatureIDs,
		Notes:          p.Notes,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}

	seat, err := sc.Selections.SeatOf(c.Request.Context(), sel.SeatID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	itemName := ""
	if sel.Item != nil {
		itemName = sel.Item.Name
	}
	redirect := ""
	if seat.Order != nil {
		redirect = fmt.Sprintf("%s?active_seat=%d", tablePath(seat.Order.TableID), seat.ID)
	}
	utils.JSONRedirect(c, http.StatusOK, redirect, gin.H{
		"message":   fmt.Sprintf("Updated selection for %q on seat %q.", itemName, seat.Label),
		"selection": sel,
	})
}

// ----------------------------------------------------
// POST /selections/:id/remove
// ----------------------------------------------------

func (sc *SelectionController) Remove(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "selection")
		return
	}
	sel, err := sc.Selections.RemoveSelection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "")
		return
	}
	redirect := ""
	if sel.Seat != nil && sel.Seat.Order != nil {
		redirect = tablePath(sel.Seat.Order.TableID)
	}
	utils.JSONRedirect(c, http.StatusOK, redirect, gin.H{"message": "Selection removed."})
}

// ----------------------------------------------------
// POST /selections/move
// ----------------------------------------------------

// Move answers {"status":"ok"} or {"status":"error","message":...}.
func (sc *SelectionController) Move(c *gin.Context) {
	var p moveSelectionPayload
	if utils.IsJSON(c) {
		if err := c.ShouldBindJSON(&p); err != nil {
			utils.JSONError(c, http.StatusBadRequest, errInvalidPayload.Error())
			return
		}
	} else {
		p.SelectionID, _ = utils.ParseID(strings.TrimSpace(c.PostForm("selection_id")))
		p.TargetSeatID, _ = utils.ParseID(strings.TrimSpace(c.PostForm("target_seat_id")))
	}
	if p.SelectionID == 0 || p.TargetSeatID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Missing selection_id or target_seat_id")
		return
	}

	if _, err := sc.Selections.MoveSelection(c.Request.Context(), p.SelectionID, p.TargetSeatID, middleware.CurrentStaffID(c)); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
