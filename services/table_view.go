package services

import (
	"context"
	"errors"
	"fmt"

	"tableside-backend/models"
)

// TableView is everything the table screen shows.
type TableView struct {
	Table        *models.Table        `json:"table"`
	Party        *models.Party        `json:"party,omitempty"`
	Order        *models.Order        `json:"order,omitempty"`
	Seats        []models.Seat        `json:"seats"`
	Filter       *SeatRange           `json:"filter,omitempty"`
	MenuItems    []models.MenuItem    `json:"menu_items"`
	Modifiers    []models.Modifier    `json:"modifiers"`
	Temperatures []models.Temperature `json:"temperatures"`
}

// TableView loads a table with its open order (if any), the seats visible
// under filter and the menu of the table's party.
func (s *OrderService) TableView(ctx context.Context, tableID uint, filter *SeatRange) (*TableView, error) {
	var table models.Table
	if err := s.DB.WithContext(ctx).Preload("Room").Preload("Party").First(&table, tableID).Error; err != nil {
		return nil, mapDBError(err, "table")
	}

	view := &TableView{Table: &table, Party: table.Party, Filter: filter, Seats: []models.Seat{}}

	open, err := s.OpenOrderForTable(ctx, table.ID)
	switch {
	case errors.Is(err, ErrNoOpenOrder):
	case err != nil:
		return nil, err
	default:
		var order models.Order
		err := preloadSeatTree(s.DB.WithContext(ctx), "Seats.").
			Preload("OpenedByStaff").
			First(&order, open.ID).Error
		if err != nil {
			return nil, fmt.Errorf("load order: %w", err)
		}
		seats := FilterSeats(order.Seats, filter)
		SortSeats(seats)
		order.Seats = nil
		view.Order = &order
		view.Seats = seats
	}

	if view.MenuItems, err = s.Menu.ListAvailableItems(ctx, table.PartyID); err != nil {
		return nil, err
	}
	if view.Modifiers, err = s.Menu.ListModifiers(ctx); err != nil {
		return nil, fmt.Errorf("list modifiers: %w", err)
	}
	if view.Temperatures, err = s.Menu.ListTemperatures(ctx); err != nil {
		return nil, fmt.Errorf("list temperatures: %w", err)
	}
	return view, nil
}
