package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"tableside-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService writes StaffLog entries. Writes are best-effort: a failure is
// logged and never reaches the caller.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// Record stores one entry for staffID. A zero staffID (no session) records
// nothing.
func (s *AuditService) Record(ctx context.Context, staffID uint, action string, details map[string]any) {
	if s == nil || staffID == 0 {
		return
	}

	entry := models.StaffLog{
		StaffID:   staffID,
		Action:    truncate(strings.TrimSpace(action), 255),
		Timestamp: time.Now().UTC(),
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("⚠️ audit write failed (staff=%d action=%q): %v", staffID, entry.Action, err)
	}
}

// ListRecent returns the newest entries first.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]models.StaffLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.StaffLog
	err := s.DB.WithContext(ctx).
		Preload("Staff").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
