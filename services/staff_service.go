package services

import (
	"context"
	"fmt"
	"strings"

	"tableside-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffAuthenticator resolves a raw staff code to a staff member.
type StaffAuthenticator interface {
	Authenticate(ctx context.Context, rawCode string) (*models.StaffMember, error)
}

// CodeScanAuthenticator checks the code against every stored hash. Codes
// are secrets, not identifiers, so there is nothing to index on; the cost is
// one bcrypt comparison per staff member.
type CodeScanAuthenticator struct {
	DB *gorm.DB
}

func NewCodeScanAuthenticator(db *gorm.DB) *CodeScanAuthenticator {
	return &CodeScanAuthenticator{DB: db}
}

// Authenticate returns the first staff member whose hash matches, or
// ErrInvalidCode.
func (a *CodeScanAuthenticator) Authenticate(ctx context.Context, rawCode string) (*models.StaffMember, error) {
	code := strings.TrimSpace(rawCode)
	if code == "" {
		return nil, ErrInvalidCode
	}

	var staff []models.StaffMember
	if err := a.DB.WithContext(ctx).Order("id").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}

	for i := range staff {
		if bcrypt.CompareHashAndPassword([]byte(staff[i].CodeHash), []byte(code)) == nil {
			return &staff[i], nil
		}
	}
	return nil, ErrInvalidCode
}

type StaffService struct {
	DB *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

func hashCode(rawCode string) (string, error) {
	code := strings.TrimSpace(rawCode)
	if code == "" {
		return "", validationf("code is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	return string(hash), nil
}

// Create stores a new staff member with the code hashed.
func (s *StaffService) Create(ctx context.Context, name, rawCode string) (*models.StaffMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("name is required")
	}
	hash, err := hashCode(rawCode)
	if err != nil {
		return nil, err
	}

	staff := models.StaffMember{Name: name, CodeHash: hash}
	if err := s.DB.WithContext(ctx).Create(&staff).Error; err != nil {
		return nil, mapDBError(err, "staff member")
	}
	return &staff, nil
}

// SetCode replaces the stored hash with one for rawCode.
func (s *StaffService) SetCode(ctx context.Context, staffID uint, rawCode string) error {
	hash, err := hashCode(rawCode)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.StaffMember{}).Where("id = ?", staffID).Update("code_hash", hash)
	if res.Error != nil {
		return mapDBError(res.Error, "staff member")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff member %w", ErrNotFound)
	}
	return nil
}

func (s *StaffService) GetByID(ctx context.Context, id uint) (*models.StaffMember, error) {
	var staff models.StaffMember
	if err := s.DB.WithContext(ctx).First(&staff, id).Error; err != nil {
		return nil, mapDBError(err, "staff member")
	}
	return &staff, nil
}

func (s *StaffService) List(ctx context.Context) ([]models.StaffMember, error) {
	var staff []models.StaffMember
	err := s.DB.WithContext(ctx).Order("name").Find(&staff).Error
	return staff, err
}
