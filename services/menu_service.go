package services

import (
	"context"
	"fmt"
	"strings"

	"tableside-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuService layers a party's menu overlay on top of the catalog.
type MenuService struct {
	DB *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db}
}

// ListAvailableItems returns the items available for the party, or the whole
// catalog when partyID is nil (legacy tables without a party). Items come
// in course order, then by name.
func (s *MenuService) ListAvailableItems(ctx context.Context, partyID *uint) ([]models.MenuItem, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Joins("JOIN courses ON courses.id = menu_items.course_id").
		Preload("Course").
		Preload("Modifiers").
		Preload("Temperatures")

	if partyID != nil {
		q = q.Joins("JOIN party_menu_items ON party_menu_items.menu_item_id = menu_items.id").
			Where("party_menu_items.party_id = ? AND party_menu_items.available = ?", *partyID, true)
	}

	var items []models.MenuItem
	if err := q.Order("courses.ordering ASC, menu_items.name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// PartyMenuEntry is one available item of a party menu with the price that
// applies at that party.
type PartyMenuEntry struct {
	ID             uint                `json:"id"`
	MenuItem       *models.MenuItem    `json:"menu_item"`
	Available      bool                `json:"available"`
	PriceOverride  decimal.NullDecimal `json:"price_override"`
	EffectivePrice decimal.Decimal     `json:"effective_price"`
}

// PartyMenu lists the available entries of the party identified by slug.
func (s *MenuService) PartyMenu(ctx context.Context, slug string) (*models.Party, []PartyMenuEntry, error) {
	var party models.Party
	if err := s.DB.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&party).Error; err != nil {
		return nil, nil, mapDBError(err, "party")
	}

	var links []models.PartyMenuItem
	err := s.DB.WithContext(ctx).
		Joins("JOIN menu_items ON menu_items.id = party_menu_items.menu_item_id").
		Where("party_menu_items.party_id = ? AND party_menu_items.available = ?", party.ID, true).
		Preload("MenuItem.Course").
		Preload("MenuItem.Modifiers").
		Order("menu_items.name ASC").
		Find(&links).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list party menu: %w", err)
	}

	out := make([]PartyMenuEntry, 0, len(links))
	for _, l := range links {
		out = append(out, PartyMenuEntry{
			ID:             l.ID,
			MenuItem:       l.MenuItem,
			Available:      l.Available,
			PriceOverride:  l.PriceOverride,
			EffectivePrice: l.EffectivePrice(),
		})
	}
	return &party, out, nil
}

// ListModifiers and ListTemperatures feed the tag pickers of the table view.
func (s *MenuService) ListModifiers(ctx context.Context) ([]models.Modifier, error) {
	var out []models.Modifier
	err := s.DB.WithContext(ctx).Order("label").Find(&out).Error
	return out, err
}

func (s *MenuService) ListTemperatures(ctx context.Context) ([]models.Temperature, error) {
	var out []models.Temperature
	err := s.DB.WithContext(ctx).Order("label").Find(&out).Error
	return out, err
}
