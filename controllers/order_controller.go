package controllers

import (
	"fmt"
	"net/http"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders  *services.OrderService
	Seats   *services.SeatService
	Tickets *services.TicketService
}

func NewOrderController(orders *services.OrderService, seats *services.SeatService, tickets *services.TicketService) *OrderController {
	return &OrderController{Orders: orders, Seats: seats, Tickets: tickets}
}

// ----------------------------------------------------
// POST /orders/:id/close
// ----------------------------------------------------

// Close deletes the order and everything under it; the table stays.
func (oc *OrderController) Close(c *gin.Context) {
	orderID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "order")
		return
	}
	roomID, err := oc.Orders.CloseOrder(c.Request.Context(), orderID, middleware.CurrentStaffID(c))
	if err != nil {
		respondError(c, err, "/rooms")
		return
	}
	utils.JSONRedirect(c, http.StatusOK, fmt.Sprintf("/rooms/%d/tables", roomID), gin.H{"message": "Order closed."})
}

// ----------------------------------------------------
// POST /orders/:id/printed
// ----------------------------------------------------

func (oc *OrderController) MarkPrinted(c *gin.Context) {
	orderID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "order")
		return
	}
	order, err := oc.Orders.MarkPrinted(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONRedirect(c, http.StatusOK, tablePath(order.TableID), gin.H{"order": order})
}

// ----------------------------------------------------
// POST /orders/:id/seats
// ----------------------------------------------------

func (oc *OrderController) AddSeat(c *gin.Context) {
	orderID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "order")
		return
	}
	seat, order, err := oc.Seats.AddSeat(c.Request.Context(), orderID, middleware.CurrentStaffID(c))
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONRedirect(c, http.StatusCreated, fmt.Sprintf("%s?new_seat=%d", tablePath(order.TableID), seat.ID), gin.H{
		"message": fmt.Sprintf("Seat #%s added.", seat.Label),
		"seat":    seat,
	})
}

// ----------------------------------------------------
// GET /orders/:id/seats
// ----------------------------------------------------

func (oc *OrderController) ListSeats(c *gin.Context) {
	orderID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "order")
		return
	}
	seats, err := oc.Seats.ListForOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, seats)
}

// ----------------------------------------------------
// GET /orders/:id/print
// ----------------------------------------------------

func (oc *OrderController) PrintTicket(c *gin.Context) {
	orderID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "order")
		return
	}
	ticket, err := oc.Tickets.OrderTicket(c.Request.Context(), orderID, middleware.CurrentStaffID(c))
	if err != nil {
		respondError(c, err, "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}
