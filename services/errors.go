package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNoOpenOrder      = errors.New("no order exists yet - please start one first")
	ErrOrderAlreadyOpen = errors.New("table already has an open order")
	ErrInvalidCode      = errors.New("invalid code")
)

// ValidationError is malformed or contradictory user input. Nothing was
// written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a collision with existing state. Labels holds the
// overlapping seat numbers when the conflict is a seat range.
type ConflictError struct {
	Message string
	Labels  []int
}

func (e *ConflictError) Error() string { return e.Message }

func seatOverlapError(labels []int) *ConflictError {
	sorted := append([]int(nil), labels...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return &ConflictError{
		Message: fmt.Sprintf("The seats %s already exist in this order. Pick a different range.", strings.Join(parts, ", ")),
		Labels:  sorted,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}

// isDuplicateKey reports unique-index violations from MySQL, from gorm's
// error translation, or from SQLite.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyViolation reports restrict-on-delete and dangling reference
// errors.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == 1451 || me.Number == 1452) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// mapDBError turns storage errors into the service error taxonomy. what
// names the entity for not-found lookups.
func mapDBError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case isDuplicateKey(err):
		return &ConflictError{Message: fmt.Sprintf("%s already exists", what)}
	case isForeignKeyViolation(err):
		return &ConflictError{Message: fmt.Sprintf("%s is still referenced", what)}
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
