package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Party is an event (e.g. "John-Jane Wedding - Hall A") that owns a set of
// tables and its own menu overlay.
type Party struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Slug      string    `gorm:"size:140;not null;uniqueIndex" json:"slug"`
	CreatedBy string    `gorm:"size:120" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Tables    []Table         `gorm:"foreignKey:PartyID" json:"tables,omitempty"`
	MenuItems []PartyMenuItem `gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE" json:"menu_items,omitempty"`
}

// BeforeCreate fills the slug from the name when none was given.
func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}

// PartyMenuItem links a MenuItem to a Party. Available toggles visibility
// for that party; PriceOverride replaces MenuItem.Price when valid.
type PartyMenuItem struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	PartyID       uint                `gorm:"not null;uniqueIndex:idx_party_menu_item" json:"party_id"`
	MenuItemID    uint                `gorm:"not null;uniqueIndex:idx_party_menu_item" json:"menu_item_id"`
	Available     bool                `gorm:"not null" json:"available"`
	PriceOverride decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"price_override"`

	Party    *Party    `gorm:"foreignKey:PartyID" json:"-"`
	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"menu_item,omitempty"`
}

// EffectivePrice is the override when set, otherwise the item's base price.
func (p PartyMenuItem) EffectivePrice() decimal.Decimal {
	if p.PriceOverride.Valid {
		return p.PriceOverride.Decimal
	}
	if p.MenuItem != nil {
		return p.MenuItem.Price
	}
	return decimal.Zero
}
