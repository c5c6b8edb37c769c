package controllers

import (
	"fmt"
	"net/http"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type SeatController struct {
	Seats *services.SeatService
}

func NewSeatController(seats *services.SeatService) *SeatController {
	return &SeatController{Seats: seats}
}

// Remove (POST /seats/:id/remove) deletes the seat with its selections.
func (sc *SeatController) Remove(c *gin.Context) {
	seatID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "seat")
		return
	}
	seat, err := sc.Seats.RemoveSeat(c.Request.Context(), seatID, middleware.CurrentStaffID(c))
	if err != nil {
		respondError(c, err, "")
		return
	}

	redirect := ""
	if seat.Order != nil {
		redirect = tablePath(seat.Order.TableID)
	}
	utils.JSONRedirect(c, http.StatusOK, redirect, gin.H{
		"message": fmt.Sprintf("Seat %q removed.", seat.Label),
	})
}
