package models

import (
	"time"

	"gorm.io/datatypes"
)

// StaffMember logs in with a secret code. Only the bcrypt hash is stored,
// never returned in JSON.
type StaffMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	CodeHash  string    `gorm:"size:128;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// StaffLog is the write-only audit trail: who did what and when.
type StaffLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StaffID   uint           `gorm:"not null;index" json:"staff_id"`
	Staff     *StaffMember   `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"staff,omitempty"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Details   datatypes.JSON `json:"details,omitempty"`
	Timestamp time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
}
