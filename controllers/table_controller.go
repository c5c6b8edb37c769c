package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	Orders *services.OrderService
}

func NewTableController(orders *services.OrderService) *TableController {
	return &TableController{Orders: orders}
}

type seatSpecPayload struct {
	Start *int `json:"my_seat_start"`
	End   *int `json:"my_seat_end"`
	Count *int `json:"seat_count"`
}

var errBadSeatNumber = errors.New("Invalid seat range.")

// readSeatSpec accepts my_seat_start/my_seat_end/seat_count as JSON or
// form fields; my_start/my_end are accepted as older form names.
func readSeatSpec(c *gin.Context) (services.SeatSpec, error) {
	var p seatSpecPayload
	if utils.IsJSON(c) {
		if err := c.ShouldBindJSON(&p); err != nil {
			return services.SeatSpec{}, errBadSeatNumber
		}
		return services.ParseSeatSpec(p.Start, p.End, p.Count)
	}

	var err error
	read := func(keys ...string) *int {
		for _, k := range keys {
			v, e := utils.OptionalFormInt(c, k)
			if e != nil {
				err = errBadSeatNumber
				return nil
			}
			if v != nil {
				return v
			}
		}
		return nil
	}
	p.Start = read("my_seat_start", "my_start")
	p.End = read("my_seat_end", "my_end")
	p.Count = read("seat_count")
	if err != nil {
		return services.SeatSpec{}, err
	}
	return services.ParseSeatSpec(p.Start, p.End, p.Count)
}

func tablePath(tableID uint) string {
	return fmt.Sprintf("/tables/%d", tableID)
}

func rangedTablePath(tableID uint, spec services.SeatSpec) string {
	if !spec.HasRange {
		return tablePath(tableID)
	}
	return fmt.Sprintf("/tables/%d?my_start=%d&my_end=%d", tableID, spec.Start, spec.End)
}

// ----------------------------------------------------
// GET /tables/:id?my_start=&my_end=
// ----------------------------------------------------

func (tc *TableController) View(c *gin.Context) {
	tableID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "table")
		return
	}

	view, err := tc.Orders.TableView(c.Request.Context(), tableID, seatFilter(c))
	if err != nil {
		respondError(c, err, "/rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// seatFilter reads the optional visible range; reversed bounds are swapped
// and anything non-numeric disables the filter.
func seatFilter(c *gin.Context) *services.SeatRange {
	start, err1 := strconv.Atoi(c.Query("my_start"))
	end, err2 := strconv.Atoi(c.Query("my_end"))
	if err1 != nil || err2 != nil || start < 0 || end < 0 {
		return nil
	}
	if start > end {
		start, end = end, start
	}
	return &services.SeatRange{Start: start, End: end}
}

// ----------------------------------------------------
// POST /tables/:id/start
// ----------------------------------------------------

func (tc *TableController) Start(c *gin.Context) {
	tableID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "table")
		return
	}
	spec, err := readSeatSpec(c)
	if err != nil {
		respondSeatSpecError(c, err, tablePath(tableID))
		return
	}

	order, err := tc.Orders.StartOrder(c.Request.Context(), tableID, middleware.CurrentStaffID(c), spec)
	if err != nil {
		respondError(c, err, tablePath(tableID))
		return
	}

	utils.JSONRedirect(c, http.StatusCreated, tablePath(tableID), gin.H{
		"message": fmt.Sprintf("Order started with %d seats.", len(order.Seats)),
		"order":   order,
	})
}

// ----------------------------------------------------
// POST /tables/:id/join
// ----------------------------------------------------

func (tc *TableController) Join(c *gin.Context) {
	tableID, err := utils.ParamID(c, "id")
	if err != nil {
		badID(c, "table")
		return
	}
	spec, err := readSeatSpec(c)
	if err != nil {
		respondSeatSpecError(c, err, tablePath(tableID))
		return
	}

	res, err := tc.Orders.JoinOrder(c.Request.Context(), tableID, middleware.CurrentStaffID(c), spec)
	if errors.Is(err, services.ErrNoOpenOrder) {
		respondError(c, err, tablePath(tableID)+"/start")
		return
	}
	if err != nil {
		respondError(c, err, rangedTablePath(tableID, spec))
		return
	}

	msg := fmt.Sprintf("%d seats added (no explicit range).", len(res.Created))
	if spec.HasRange {
		msg = fmt.Sprintf("%d seats added (#%d-%d).", len(res.Created), spec.Start, spec.End)
	}
	utils.JSONRedirect(c, http.StatusOK, rangedTablePath(tableID, spec), gin.H{
		"message": msg,
		"order":   res.Order,
		"seats":   res.Created,
	})
}

func respondSeatSpecError(c *gin.Context, err error, redirect string) {
	if errors.Is(err, errBadSeatNumber) {
		utils.JSONErrorRedirect(c, http.StatusBadRequest, err.Error(), redirect)
		return
	}
	respondError(c, err, redirect)
}
