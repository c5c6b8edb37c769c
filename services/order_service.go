package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tableside-backend/models"

	"gorm.io/gorm"
)

// OrderService owns the order lifecycle: start, join, close.
type OrderService struct {
	DB    *gorm.DB
	Audit *AuditService
	Menu  *MenuService
}

func NewOrderService(db *gorm.DB, audit *AuditService, menu *MenuService) *OrderService {
	return &OrderService{DB: db, Audit: audit, Menu: menu}
}

// JoinResult is the open order plus the seats a join created.
type JoinResult struct {
	Order   *models.Order
	Created []models.Seat
}

func staffRef(staffID uint) *uint {
	if staffID == 0 {
		return nil
	}
	id := staffID
	return &id
}

func (s *OrderService) loadTable(ctx context.Context, tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.DB.WithContext(ctx).Preload("Room").First(&table, tableID).Error; err != nil {
		return nil, mapDBError(err, "table")
	}
	return &table, nil
}

func openOrderQuery(db *gorm.DB, tableID uint) *gorm.DB {
	return db.Where("table_id = ? AND printed = ?", tableID, false)
}

// OpenOrderForTable returns the table's open order or ErrNoOpenOrder.
func (s *OrderService) OpenOrderForTable(ctx context.Context, tableID uint) (*models.Order, error) {
	var order models.Order
	err := openOrderQuery(s.DB.WithContext(ctx), tableID).Order("opened_at DESC, id DESC").First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenOrder
	}
	if err != nil {
		return nil, fmt.Errorf("find open order: %w", err)
	}
	return &order, nil
}

// StartOrder opens a new order on the table and creates its seats in the
// same transaction. Seats start unassigned.
func (s *OrderService) StartOrder(ctx context.Context, tableID, staffID uint, spec SeatSpec) (*models.Order, error) {
	table, err := s.loadTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		TableID:         table.ID,
		PartyID:         table.PartyID,
		OpenedByStaffID: staffRef(staffID),
		OpenedAt:        time.Now().UTC(),
		Printed:         false,
		OpenTableID:     &table.ID,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := openOrderQuery(tx.Model(&models.Order{}), table.ID).Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrOrderAlreadyOpen
		}

		if err := tx.Create(&order).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrOrderAlreadyOpen
			}
			return fmt.Errorf("create order: %w", err)
		}

		numbers := spec.Numbers()
		seats := make([]models.Seat, 0, len(numbers))
		for _, n := range numbers {
			seats = append(seats, models.Seat{OrderID: order.ID, Label: fmt.Sprint(n)})
		}
		if len(seats) > 0 {
			if err := tx.CreateInBatches(&seats, 100).Error; err != nil {
				return mapDBError(err, "seat")
			}
		}
		order.Seats = seats
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ order #%d started on table %d with %d seats", order.ID, table.Number, len(order.Seats))
	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("started order #%d on table %d with %d seats", order.ID, table.Number, len(order.Seats)),
		map[string]any{"order_id": order.ID, "table_id": table.ID, "seats": len(order.Seats)},
	)
	return &order, nil
}

// JoinOrder adds seats to the table's open order for the joining staff
// member. An explicit range that overlaps existing numeric labels is
// rejected as a whole; the count form silently skips labels already taken.
func (s *OrderService) JoinOrder(ctx context.Context, tableID, staffID uint, spec SeatSpec) (*JoinResult, error) {
	table, err := s.loadTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	order, err := s.OpenOrderForTable(ctx, table.ID)
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := s.DB.WithContext(ctx).Model(&models.Seat{}).Where("order_id = ?", order.ID).Pluck("label", &labels).Error; err != nil {
		return nil, fmt.Errorf("load seat labels: %w", err)
	}
	occupied := NumericLabels(labels)

	var wanted []int
	if spec.HasRange {
		var overlap []int
		for _, n := range spec.Numbers() {
			if _, taken := occupied[n]; taken {
				overlap = append(overlap, n)
			}
		}
		if len(overlap) > 0 {
			return nil, seatOverlapError(overlap)
		}
		wanted = spec.Numbers()
	} else {
		for _, n := range spec.Numbers() {
			if _, taken := occupied[n]; !taken {
				wanted = append(wanted, n)
			}
		}
	}

	seats := make([]models.Seat, 0, len(wanted))
	for _, n := range wanted {
		seats = append(seats, models.Seat{OrderID: order.ID, Label: fmt.Sprint(n), AssignedToID: staffRef(staffID)})
	}

	if len(seats) > 0 {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&seats, 100).Error
		})
		if err != nil {
			// the (order, label) unique index is the real guard against two
			// joins racing past the overlap check
			if isDuplicateKey(err) {
				return nil, &ConflictError{Message: "Some of those seats were just added by someone else. Reload and pick a different range."}
			}
			return nil, fmt.Errorf("create seats: %w", err)
		}
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("joined order #%d on table %d with %d seats", order.ID, table.Number, len(seats)),
		map[string]any{"order_id": order.ID, "table_id": table.ID, "seats": len(seats)},
	)
	return &JoinResult{Order: order, Created: seats}, nil
}

// CloseOrder deletes the order with everything under it and returns the
// room id so the caller can go back to the room view. The table stays.
func (s *OrderService) CloseOrder(ctx context.Context, orderID, staffID uint) (uint, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Table").First(&order, orderID).Error; err != nil {
		return 0, mapDBError(err, "order")
	}

	var roomID, tableNumber uint
	if order.Table != nil {
		roomID = order.Table.RoomID
		tableNumber = order.Table.Number
	}

	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("closed order #%d on table %d", order.ID, tableNumber),
		map[string]any{"order_id": order.ID, "table_id": order.TableID},
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteOrderTree(tx, order.ID)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ order #%d closed and deleted", order.ID)
	return roomID, nil
}

// MarkPrinted flags the order as sent to the kitchen. A printed order no
// longer counts as the table's open order.
func (s *OrderService) MarkPrinted(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, mapDBError(err, "order")
	}
	err := s.DB.WithContext(ctx).Model(&order).Updates(map[string]any{
		"printed":       true,
		"open_table_id": nil,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("mark order printed: %w", err)
	}
	order.Printed = true
	order.OpenTableID = nil
	return &order, nil
}

// deleteOrderTree removes an order, its seats, selections, legacy lines and
// tag links. Foreign keys cascade too; deleting children first keeps this
// correct on stores where they do not.
func deleteOrderTree(tx *gorm.DB, orderID uint) error {
	var seatIDs []uint
	if err := tx.Model(&models.Seat{}).Where("order_id = ?", orderID).Pluck("id", &seatIDs).Error; err != nil {
		return err
	}
	if err := deleteSeats(tx, seatIDs); err != nil {
		return err
	}

	var lineIDs []uint
	if err := tx.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Pluck("id", &lineIDs).Error; err != nil {
		return err
	}
	if len(lineIDs) > 0 {
		if err := tx.Exec("DELETE FROM order_line_modifiers WHERE order_line_id IN ?", lineIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", lineIDs).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
	}

	res := tx.Delete(&models.Order{}, orderID)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %w", ErrNotFound)
	}
	return nil
}

func deleteSeats(tx *gorm.DB, seatIDs []uint) error {
	if len(seatIDs) == 0 {
		return nil
	}
	var selIDs []uint
	if err := tx.Model(&models.SeatSelection{}).Where("seat_id IN ?", seatIDs).Pluck("id", &selIDs).Error; err != nil {
		return err
	}
	if err := deleteSelections(tx, selIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", seatIDs).Delete(&models.Seat{}).Error
}

func deleteSelections(tx *gorm.DB, selIDs []uint) error {
	if len(selIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM seat_selection_modifiers WHERE seat_selection_id IN ?", selIDs).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM seat_selection_temperatures WHERE seat_selection_id IN ?", selIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", selIDs).Delete(&models.SeatSelection{}).Error
}
