package models

import "github.com/shopspring/decimal"

// Course decides the order sections appear on printed tickets. Lower
// Ordering prints first.
type Course struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Ordering uint   `gorm:"not null" json:"ordering"`
}

// Temperature is a doneness/colour tag (Rare, Medium-Rare, Pink, ...).
type Temperature struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"size:30;not null;uniqueIndex" json:"label"`
	Name  string `gorm:"size:80;not null;uniqueIndex" json:"name"`
}

// Modifier is an allergy / dietary tag or extra option.
type Modifier struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"size:80;not null;uniqueIndex" json:"label"`
	Name  string `gorm:"size:80;not null;uniqueIndex" json:"name"`
}

type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CourseID    uint            `gorm:"not null;index" json:"course_id"`
	Course      *Course         `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`

	// allowed tags for this dish
	Modifiers    []Modifier    `gorm:"many2many:menu_item_modifiers;constraint:OnDelete:CASCADE" json:"modifiers,omitempty"`
	Temperatures []Temperature `gorm:"many2many:menu_item_temperatures;constraint:OnDelete:CASCADE" json:"temperatures,omitempty"`
}
