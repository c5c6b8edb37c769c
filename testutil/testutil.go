package testutil

import (
	"testing"

	"tableside-backend/config"
	"tableside-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StaffCode and OtherStaffCode are the raw codes of the seeded staff.
const (
	StaffCode      = "1234"
	OtherStaffCode = "9876"
)

// SetupTestDB opens a private in-memory SQLite database with foreign keys
// on and the full schema migrated. One connection keeps the memory
// database alive for the whole test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// Fixture is a small catalog: one room with two tables, two courses, three
// items, tags and two staff members.
type Fixture struct {
	DB *gorm.DB

	Room   models.Room
	Table  models.Table
	Table2 models.Table

	Starter models.Course
	Main    models.Course

	Soup   models.MenuItem
	Steak  models.MenuItem
	Salmon models.MenuItem

	GF     models.Modifier
	DF     models.Modifier
	Rare   models.Temperature
	Medium models.Temperature

	Staff models.StaffMember
	Other models.StaffMember
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("Failed to create fixture %T: %v", v, err)
	}
}

func HashCode(t *testing.T, code string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash code: %v", err)
	}
	return string(hash)
}

// Seed fills db with the fixture catalog.
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{DB: db}

	f.Room = models.Room{Name: "Main Hall"}
	mustCreate(t, db, &f.Room)
	f.Table = models.Table{Number: 1, RoomID: f.Room.ID}
	mustCreate(t, db, &f.Table)
	f.Table2 = models.Table{Number: 2, RoomID: f.Room.ID}
	mustCreate(t, db, &f.Table2)

	f.Starter = models.Course{Name: "Starter", Ordering: 10}
	mustCreate(t, db, &f.Starter)
	f.Main = models.Course{Name: "Main", Ordering: 20}
	mustCreate(t, db, &f.Main)

	f.GF = models.Modifier{Label: "GF", Name: "Gluten-free"}
	mustCreate(t, db, &f.GF)
	f.DF = models.Modifier{Label: "DF", Name: "Dairy-free"}
	mustCreate(t, db, &f.DF)
	f.Rare = models.Temperature{Label: "R", Name: "Rare"}
	mustCreate(t, db, &f.Rare)
	f.Medium = models.Temperature{Label: "M", Name: "Medium"}
	mustCreate(t, db, &f.Medium)

	f.Soup = models.MenuItem{Name: "Soup", CourseID: f.Starter.ID, Price: decimal.RequireFromString("7.50")}
	mustCreate(t, db, &f.Soup)
	f.Steak = models.MenuItem{Name: "Steak", CourseID: f.Main.ID, Price: decimal.RequireFromString("28.00")}
	mustCreate(t, db, &f.Steak)
	f.Salmon = models.MenuItem{Name: "Salmon", CourseID: f.Main.ID, Price: decimal.RequireFromString("24.00")}
	mustCreate(t, db, &f.Salmon)

	f.Staff = models.StaffMember{Name: "Alice", CodeHash: HashCode(t, StaffCode)}
	mustCreate(t, db, &f.Staff)
	f.Other = models.StaffMember{Name: "Bob", CodeHash: HashCode(t, OtherStaffCode)}
	mustCreate(t, db, &f.Other)

	return f
}
