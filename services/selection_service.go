package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableside-backend/models"

	"gorm.io/gorm"
)

// SelectionService attaches menu items with their tags to seats.
type SelectionService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewSelectionService(db *gorm.DB, audit *AuditService) *SelectionService {
	return &SelectionService{DB: db, Audit: audit}
}

type AddSelectionInput struct {
	SeatID         uint
	ItemID         uint
	ModifierIDs    []uint
	TemperatureIDs []uint
	Notes          string
}

// AddSelection gets or creates the selection for (seat, item). New notes
// are appended on their own line; tags accumulate and are never removed
// here.
func (s *SelectionService) AddSelection(ctx context.Context, in AddSelectionInput) (*models.SeatSelection, error) {
	notes := strings.TrimSpace(in.Notes)

	var sel models.SeatSelection
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seat models.Seat
		if err := tx.First(&seat, in.SeatID).Error; err != nil {
			return mapDBError(err, "seat")
		}
		var item models.MenuItem
		if err := tx.First(&item, in.ItemID).Error; err != nil {
			return mapDBError(err, "menu item")
		}

		err := tx.Where("seat_id = ? AND item_id = ?", seat.ID, item.ID).Order("id").First(&sel).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sel = models.SeatSelection{SeatID: seat.ID, ItemID: item.ID, Notes: notes}
			if err := tx.Create(&sel).Error; err != nil {
				return mapDBError(err, "selection")
			}
		case err != nil:
			return fmt.Errorf("find selection: %w", err)
		case notes != "":
			sel.Notes = strings.TrimSpace(sel.Notes + "\n" + notes)
			if err := tx.Model(&sel).Update("notes", sel.Notes).Error; err != nil {
				return fmt.Errorf("append notes: %w", err)
			}
		}

		if len(in.ModifierIDs) > 0 {
			var mods []models.Modifier
			if err := tx.Where("id IN ?", in.ModifierIDs).Find(&mods).Error; err != nil {
				return err
			}
			if len(mods) > 0 {
				if err := tx.Model(&sel).Association("Modifiers").Append(mods); err != nil {
					return fmt.Errorf("attach modifiers: %w", err)
				}
			}
		}
		if len(in.TemperatureIDs) > 0 {
			var temps []models.Temperature
			if err := tx.Where("id IN ?", in.TemperatureIDs).Find(&temps).Error; err != nil {
				return err
			}
			if len(temps) > 0 {
				if err := tx.Model(&sel).Association("Temperatures").Append(temps); err != nil {
					return fmt.Errorf("attach temperatures: %w", err)
				}
			}
		}

		sel.Item = &item
		sel.Seat = &seat
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, sel.ID)
}

// GetByID loads a selection with its item and tags.
func (s *SelectionService) GetByID(ctx context.Context, id uint) (*models.SeatSelection, error) {
	var sel models.SeatSelection
	err := s.DB.WithContext(ctx).
		Preload("Item.Course").
		Preload("Modifiers").
		Preload("Temperatures").
		First(&sel, id).Error
	if err != nil {
		return nil, mapDBError(err, "selection")
	}
	return &sel, nil
}

// SeatOf loads a seat with its order.
func (s *SelectionService) SeatOf(ctx context.Context, seatID uint) (*models.Seat, error) {
	var seat models.Seat
	if err := s.DB.WithContext(ctx).Preload("Order").First(&seat, seatID).Error; err != nil {
		return nil, mapDBError(err, "seat")
	}
	return &seat, nil
}

// RemoveSelection deletes the selection outright.
func (s *SelectionService) RemoveSelection(ctx context.Context, id uint) (*models.SeatSelection, error) {
	var sel models.SeatSelection
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Seat.Order").First(&sel, id).Error; err != nil {
			return mapDBError(err, "selection")
		}
		return deleteSelections(tx, []uint{sel.ID})
	})
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// MoveSelection points the selection at targetSeatID. Only the seat
// reference changes. Both seats must belong to the same order.
func (s *SelectionService) MoveSelection(ctx context.Context, selectionID, targetSeatID, staffID uint) (*models.SeatSelection, error) {
	var sel models.SeatSelection
	if err := s.DB.WithContext(ctx).Preload("Seat").Preload("Item").First(&sel, selectionID).Error; err != nil {
		return nil, mapDBError(err, "selection")
	}
	var target models.Seat
	if err := s.DB.WithContext(ctx).Preload("Order.Table").First(&target, targetSeatID).Error; err != nil {
		return nil, mapDBError(err, "seat")
	}

	if sel.Seat != nil && sel.Seat.OrderID != target.OrderID {
		return nil, validationf("A selection can only move to a seat of the same order.")
	}

	if sel.SeatID != target.ID {
		res := s.DB.WithContext(ctx).Model(&models.SeatSelection{}).Where("id = ?", sel.ID).Update("seat_id", target.ID)
		if res.Error != nil {
			return nil, mapDBError(res.Error, "selection")
		}
	}
	sel.SeatID = target.ID
	sel.Seat = &target

	itemName := ""
	if sel.Item != nil {
		itemName = sel.Item.Name
	}
	var tableNumber uint
	if target.Order != nil && target.Order.Table != nil {
		tableNumber = target.Order.Table.Number
	}
	s.Audit.Record(ctx, staffID,
		fmt.Sprintf("moved selection #%d (item %s) to seat #%s on table %d", sel.ID, itemName, target.Label, tableNumber),
		map[string]any{"selection_id": sel.ID, "target_seat_id": target.ID},
	)
	return &sel, nil
}
