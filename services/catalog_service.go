package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tableside-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService maintains the reference data: rooms, tables, courses,
// tags, menu items and parties.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ---------------- Rooms & tables ----------------

func (s *CatalogService) CreateRoom(ctx context.Context, name, description string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("Room name is required.")
	}
	room := models.Room{Name: name, Description: strings.TrimSpace(description)}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("room %q", name))
	}
	return &room, nil
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, mapDBError(err, "room")
	}
	return &room, nil
}

type CreateTableInput struct {
	Number  uint
	RoomID  uint
	PartyID *uint
}

func (s *CatalogService) CreateTable(ctx context.Context, in CreateTableInput) (*models.Table, error) {
	if in.Number == 0 {
		return nil, validationf("Table number must be at least 1.")
	}
	if _, err := s.GetRoom(ctx, in.RoomID); err != nil {
		return nil, err
	}
	if in.PartyID != nil {
		var party models.Party
		if err := s.DB.WithContext(ctx).First(&party, *in.PartyID).Error; err != nil {
			return nil, mapDBError(err, "party")
		}
	}
	table := models.Table{Number: in.Number, RoomID: in.RoomID, PartyID: in.PartyID}
	if err := s.DB.WithContext(ctx).Create(&table).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("table %d in this room", in.Number))
	}
	return &table, nil
}

// DeleteTable refuses while any order still references the table.
func (s *CatalogService) DeleteTable(ctx context.Context, id uint) error {
	var table models.Table
	if err := s.DB.WithContext(ctx).First(&table, id).Error; err != nil {
		return mapDBError(err, "table")
	}
	var orders int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Where("table_id = ?", table.ID).Count(&orders).Error; err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if orders > 0 {
		return &ConflictError{Message: fmt.Sprintf("Table %d still has %d order(s); close them first.", table.Number, orders)}
	}
	if err := s.DB.WithContext(ctx).Delete(&table).Error; err != nil {
		return mapDBError(err, "table")
	}
	return nil
}

// RoomTable is a table of a room with its open order, if any.
type RoomTable struct {
	models.Table
	OpenOrder *models.Order `json:"open_order,omitempty"`
	SeatCount int           `json:"seat_count"`
}

// RoomTables lists the room's tables by number, each with its open order.
func (s *CatalogService) RoomTables(ctx context.Context, roomID uint) (*models.Room, []RoomTable, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	var tables []models.Table
	if err := s.DB.WithContext(ctx).Preload("Party").Where("room_id = ?", room.ID).Order("number").Find(&tables).Error; err != nil {
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		return room, []RoomTable{}, nil
	}

	ids := make([]uint, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	var orders []models.Order
	err = s.DB.WithContext(ctx).
		Preload("OpenedByStaff").
		Preload("Seats").
		Where("table_id IN ? AND printed = ?", ids, false).
		Order("opened_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list open orders: %w", err)
	}
	byTable := make(map[uint]*models.Order, len(orders))
	for i := range orders {
		if _, seen := byTable[orders[i].TableID]; !seen {
			byTable[orders[i].TableID] = &orders[i]
		}
	}

	out := make([]RoomTable, 0, len(tables))
	for _, t := range tables {
		rt := RoomTable{Table: t}
		if o, ok := byTable[t.ID]; ok {
			rt.SeatCount = len(o.Seats)
			o.Seats = nil
			rt.OpenOrder = o
		}
		out = append(out, rt)
	}
	return room, out, nil
}

// ---------------- Courses & tags ----------------

func (s *CatalogService) CreateCourse(ctx context.Context, name string, ordering uint) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("Course name is required.")
	}
	course := models.Course{Name: name, Ordering: ordering}
	if err := s.DB.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("course %q", name))
	}
	return &course, nil
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := s.DB.WithContext(ctx).Order("ordering, name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (s *CatalogService) CreateModifier(ctx context.Context, label, name string) (*models.Modifier, error) {
	label, name = strings.TrimSpace(label), strings.TrimSpace(name)
	if label == "" || name == "" {
		return nil, validationf("Modifier label and name are required.")
	}
	m := models.Modifier{Label: label, Name: name}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("modifier %q", label))
	}
	return &m, nil
}

func (s *CatalogService) CreateTemperature(ctx context.Context, label, name string) (*models.Temperature, error) {
	label, name = strings.TrimSpace(label), strings.TrimSpace(name)
	if label == "" || name == "" {
		return nil, validationf("Temperature label and name are required.")
	}
	t := models.Temperature{Label: label, Name: name}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("temperature %q", label))
	}
	return &t, nil
}

// ---------------- Menu items ----------------

type CreateMenuItemInput struct {
	Name           string
	CourseID       uint
	Description    string
	Price          decimal.Decimal
	ModifierIDs    []uint
	TemperatureIDs []uint
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in CreateMenuItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("Menu item name is required.")
	}
	if in.Price.IsNegative() {
		return nil, validationf("Price cannot be negative.")
	}

	item := models.MenuItem{
		Name:        name,
		CourseID:    in.CourseID,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, in.CourseID).Error; err != nil {
			return mapDBError(err, "course")
		}
		if len(in.ModifierIDs) > 0 {
			if err := tx.Where("id IN ?", in.ModifierIDs).Find(&item.Modifiers).Error; err != nil {
				return err
			}
		}
		if len(in.TemperatureIDs) > 0 {
			if err := tx.Where("id IN ?", in.TemperatureIDs).Find(&item.Temperatures).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&item).Error; err != nil {
			return mapDBError(err, fmt.Sprintf("menu item %q", name))
		}
		item.Course = &course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CatalogService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return (&MenuService{DB: s.DB}).ListAvailableItems(ctx, nil)
}

// DeleteMenuItem refuses while a selection or legacy line still uses the
// item. Party menu links go with it.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return mapDBError(err, "menu item")
	}

	var used int64
	if err := s.DB.WithContext(ctx).Model(&models.SeatSelection{}).Where("item_id = ?", item.ID).Count(&used).Error; err != nil {
		return fmt.Errorf("count selections: %w", err)
	}
	var lines int64
	if err := s.DB.WithContext(ctx).Model(&models.OrderLine{}).Where("item_id = ?", item.ID).Count(&lines).Error; err != nil {
		return fmt.Errorf("count order lines: %w", err)
	}
	if used+lines > 0 {
		return &ConflictError{Message: fmt.Sprintf("%s is still on %d order(s) and cannot be deleted.", item.Name, used+lines)}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.PartyMenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM menu_item_modifiers WHERE menu_item_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM menu_item_temperatures WHERE menu_item_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return mapDBError(err, "menu item")
		}
		return nil
	})
}

// ---------------- Parties ----------------

func (s *CatalogService) CreateParty(ctx context.Context, name, slugText, createdBy string) (*models.Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("Party name is required.")
	}
	party := models.Party{Name: name, Slug: strings.TrimSpace(slugText), CreatedBy: strings.TrimSpace(createdBy)}
	if err := s.DB.WithContext(ctx).Create(&party).Error; err != nil {
		return nil, mapDBError(err, fmt.Sprintf("party %q", name))
	}
	log.Printf("✅ party %q created with slug %s", party.Name, party.Slug)
	return &party, nil
}

func (s *CatalogService) ListParties(ctx context.Context) ([]models.Party, error) {
	var out []models.Party
	if err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return out, nil
}

type PartyMenuItemInput struct {
	MenuItemID    uint
	Available     bool
	PriceOverride decimal.NullDecimal
}

// SetPartyMenuItem creates or updates the party's link to a menu item.
func (s *CatalogService) SetPartyMenuItem(ctx context.Context, partyID uint, in PartyMenuItemInput) (*models.PartyMenuItem, error) {
	if in.PriceOverride.Valid && in.PriceOverride.Decimal.IsNegative() {
		return nil, validationf("Price override cannot be negative.")
	}

	var link models.PartyMenuItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var party models.Party
		if err := tx.First(&party, partyID).Error; err != nil {
			return mapDBError(err, "party")
		}
		var item models.MenuItem
		if err := tx.First(&item, in.MenuItemID).Error; err != nil {
			return mapDBError(err, "menu item")
		}

		err := tx.Where("party_id = ? AND menu_item_id = ?", party.ID, item.ID).First(&link).Error
		switch {
		case err == nil:
			link.Available = in.Available
			link.PriceOverride = in.PriceOverride
			if err := tx.Model(&link).Select("available", "price_override").Updates(&link).Error; err != nil {
				return fmt.Errorf("update party menu item: %w", err)
			}
		case isNotFound(err):
			link = models.PartyMenuItem{
				PartyID:       party.ID,
				MenuItemID:    item.ID,
				Available:     in.Available,
				PriceOverride: in.PriceOverride,
			}
			if err := tx.Create(&link).Error; err != nil {
				return mapDBError(err, "party menu item")
			}
		default:
			return err
		}
		link.MenuItem = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// AssignTableToParty links (or with nil unlinks) a table and a party.
func (s *CatalogService) AssignTableToParty(ctx context.Context, tableID uint, partyID *uint) (*models.Table, error) {
	var table models.Table
	if err := s.DB.WithContext(ctx).First(&table, tableID).Error; err != nil {
		return nil, mapDBError(err, "table")
	}
	if partyID != nil {
		var party models.Party
		if err := s.DB.WithContext(ctx).First(&party, *partyID).Error; err != nil {
			return nil, mapDBError(err, "party")
		}
	}
	if err := s.DB.WithContext(ctx).Model(&table).Update("party_id", partyID).Error; err != nil {
		return nil, fmt.Errorf("assign party: %w", err)
	}
	table.PartyID = partyID
	return &table, nil
}
