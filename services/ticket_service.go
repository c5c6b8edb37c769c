package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tableside-backend/models"

	"gorm.io/gorm"
)

// Ticket is the kitchen ticket data: the room, its orders and when it was
// produced. Rendering is left to the client.
type Ticket struct {
	Room        *models.Room   `json:"room"`
	Orders      []models.Order `json:"orders"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type TicketService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewTicketService(db *gorm.DB, audit *AuditService) *TicketService {
	return &TicketService{DB: db, Audit: audit}
}

// RoomTicket collects every open order of the room into one ticket.
func (s *TicketService) RoomTicket(ctx context.Context, roomID, staffID uint) (*Ticket, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, roomID).Error; err != nil {
		return nil, mapDBError(err, "room")
	}

	var orders []models.Order
	err := preloadSeatTree(s.DB.WithContext(ctx), "Seats.").
		Preload("Table").
		Preload("OpenedByStaff").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("tables.room_id = ? AND orders.printed = ?", room.ID, false).
		Order("tables.number ASC, orders.id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("load room orders: %w", err)
	}
	for i := range orders {
		arrangeForTicket(&orders[i])
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("printed consolidated ticket for room %s", room.Name),
		map[string]any{"room_id": room.ID, "orders": len(orders)},
	)
	return &Ticket{Room: &room, Orders: orders, GeneratedAt: time.Now().UTC()}, nil
}

// OrderTicket is the ticket for a single order, printed or not.
func (s *TicketService) OrderTicket(ctx context.Context, orderID, staffID uint) (*Ticket, error) {
	var order models.Order
	err := preloadSeatTree(s.DB.WithContext(ctx), "Seats.").
		Preload("Table.Room").
		Preload("OpenedByStaff").
		First(&order, orderID).Error
	if err != nil {
		return nil, mapDBError(err, "order")
	}
	arrangeForTicket(&order)

	var room *models.Room
	var tableNumber uint
	if order.Table != nil {
		room = order.Table.Room
		tableNumber = order.Table.Number
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("printed ticket for order #%d (table %d)", order.ID, tableNumber),
		map[string]any{"order_id": order.ID},
	)
	return &Ticket{Room: room, Orders: []models.Order{order}, GeneratedAt: time.Now().UTC()}, nil
}

// arrangeForTicket sorts seats in display order and each seat's selections
// by course, then by when they were taken.
func arrangeForTicket(order *models.Order) {
	SortSeats(order.Seats)
	for i := range order.Seats {
		sels := order.Seats[i].Selections
		sort.SliceStable(sels, func(a, b int) bool {
			ca, cb := courseOrdering(sels[a]), courseOrdering(sels[b])
			if ca != cb {
				return ca < cb
			}
			if !sels[a].CreatedAt.Equal(sels[b].CreatedAt) {
				return sels[a].CreatedAt.Before(sels[b].CreatedAt)
			}
			return sels[a].ID < sels[b].ID
		})
	}
}

func courseOrdering(sel models.SeatSelection) uint {
	if sel.Item == nil || sel.Item.Course == nil {
		return 0
	}
	return sel.Item.Course.Ordering
}
