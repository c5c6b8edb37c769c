package models

// Room is a logical area of the venue (Patio, Bar, Main Hall, ...).
type Room struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Tables      []Table `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"tables,omitempty"`
}

// Table is a physical table (or bar counter) inside a Room. PartyID links it
// to the event it serves; legacy tables have no party.
type Table struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Number  uint   `gorm:"not null;uniqueIndex:idx_table_number_room" json:"number"`
	RoomID  uint   `gorm:"not null;uniqueIndex:idx_table_number_room" json:"room_id"`
	PartyID *uint  `gorm:"index" json:"party_id,omitempty"`
	Room    *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Party   *Party `gorm:"foreignKey:PartyID;constraint:OnDelete:SET NULL" json:"party,omitempty"`

	Orders []Order `gorm:"foreignKey:TableID;constraint:OnDelete:RESTRICT" json:"orders,omitempty"`
}
