package models

import "time"

// Order is one table session. Printed=false means the order is open.
// OpenTableID mirrors TableID while the order is open and is NULL once it
// is printed; its unique index allows a single open order per table.
type Order struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	TableID         uint         `gorm:"not null;index" json:"table_id"`
	Table           *Table       `gorm:"foreignKey:TableID" json:"table,omitempty"`
	PartyID         *uint        `gorm:"index" json:"party_id,omitempty"`
	Party           *Party       `gorm:"foreignKey:PartyID;constraint:OnDelete:SET NULL" json:"party,omitempty"`
	OpenedByStaffID *uint        `gorm:"index" json:"opened_by_staff_id,omitempty"`
	OpenedByStaff   *StaffMember `gorm:"foreignKey:OpenedByStaffID;constraint:OnDelete:SET NULL" json:"opened_by_staff,omitempty"`
	OpenedAt        time.Time    `gorm:"not null;index" json:"opened_at"`
	Printed         bool         `gorm:"not null;index" json:"printed"`
	OpenTableID     *uint        `gorm:"uniqueIndex" json:"-"`

	Seats []Seat      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"seats,omitempty"`
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// Seat is a position within an order. Label doubles as display text and,
// when numeric, as a sortable range value.
type Seat struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	OrderID      uint         `gorm:"not null;uniqueIndex:idx_seat_order_label" json:"order_id"`
	Order        *Order       `gorm:"foreignKey:OrderID" json:"-"`
	Label        string       `gorm:"size:10;not null;uniqueIndex:idx_seat_order_label" json:"label"`
	AssignedToID *uint        `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo   *StaffMember `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`

	Selections []SeatSelection `gorm:"foreignKey:SeatID;constraint:OnDelete:CASCADE" json:"selections"`
}

// SeatSelection is one ordered menu item on a seat with its tags and notes.
type SeatSelection struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	SeatID       uint          `gorm:"not null;index" json:"seat_id"`
	Seat         *Seat         `gorm:"foreignKey:SeatID" json:"-"`
	ItemID       uint          `gorm:"not null;index" json:"item_id"`
	Item         *MenuItem     `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	Notes        string        `gorm:"type:text" json:"notes"`
	Modifiers    []Modifier    `gorm:"many2many:seat_selection_modifiers;constraint:OnDelete:CASCADE" json:"modifiers"`
	Temperatures []Temperature `gorm:"many2many:seat_selection_temperatures;constraint:OnDelete:CASCADE" json:"temperatures"`
	CreatedAt    time.Time     `json:"created_at"`
}

// OrderLine is the legacy line attached straight to an order. Kept for old
// data only; the seat workflow never writes it.
type OrderLine struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OrderID   uint       `gorm:"not null;index" json:"order_id"`
	ItemID    uint       `gorm:"not null;index" json:"item_id"`
	Item      *MenuItem  `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
	Notes     string     `gorm:"size:200" json:"notes"`
	Modifiers []Modifier `gorm:"many2many:order_line_modifiers;constraint:OnDelete:CASCADE" json:"modifiers,omitempty"`
}
