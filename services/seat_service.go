package services

import (
	"context"
	"fmt"

	"tableside-backend/models"

	"gorm.io/gorm"
)

type SeatService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewSeatService(db *gorm.DB, audit *AuditService) *SeatService {
	return &SeatService{DB: db, Audit: audit}
}

// AddSeat appends one unassigned seat labelled with the next free number.
func (s *SeatService) AddSeat(ctx context.Context, orderID, staffID uint) (*models.Seat, *models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Table").First(&order, orderID).Error; err != nil {
		return nil, nil, mapDBError(err, "order")
	}

	var labels []string
	if err := s.DB.WithContext(ctx).Model(&models.Seat{}).Where("order_id = ?", order.ID).Pluck("label", &labels).Error; err != nil {
		return nil, nil, fmt.Errorf("load seat labels: %w", err)
	}

	seat := models.Seat{OrderID: order.ID, Label: NextSeatLabel(labels)}
	if err := s.DB.WithContext(ctx).Create(&seat).Error; err != nil {
		return nil, nil, mapDBError(err, "seat")
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("added seat #%s to order #%d", seat.Label, order.ID),
		map[string]any{"order_id": order.ID, "seat_id": seat.ID},
	)
	return &seat, &order, nil
}

// RemoveSeat deletes the seat and its selections. A missing seat is
// ErrNotFound; other seats are untouched.
func (s *SeatService) RemoveSeat(ctx context.Context, seatID, staffID uint) (*models.Seat, error) {
	var seat models.Seat
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Order").First(&seat, seatID).Error; err != nil {
			return mapDBError(err, "seat")
		}
		return deleteSeats(tx, []uint{seat.ID})
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("removed seat %q from order #%d", seat.Label, seat.OrderID),
		map[string]any{"order_id": seat.OrderID, "seat_id": seat.ID},
	)
	return &seat, nil
}

// ListForOrder returns the order's seats with selections, in display order.
func (s *SeatService) ListForOrder(ctx context.Context, orderID uint) ([]models.Seat, error) {
	var seats []models.Seat
	err := preloadSeatTree(s.DB.WithContext(ctx), "").
		Where("order_id = ?", orderID).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	SortSeats(seats)
	return seats, nil
}

// preloadSeatTree preloads selections (oldest first) with item, course and
// tags under prefix, e.g. "" for seats or "Seats." for orders.
func preloadSeatTree(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"AssignedTo").
		Preload(prefix+"Selections", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_selections.created_at ASC, seat_selections.id ASC")
		}).
		Preload(prefix + "Selections.Item.Course").
		Preload(prefix + "Selections.Modifiers").
		Preload(prefix + "Selections.Temperatures")
}
