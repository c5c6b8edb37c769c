package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"tableside-backend/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Migrate creates/updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Room{},
		&models.Party{},
		&models.Table{},
		&models.Course{},
		&models.Modifier{},
		&models.Temperature{},
		&models.MenuItem{},
		&models.PartyMenuItem{},
		&models.StaffMember{},
		&models.StaffLog{},
		&models.Order{},
		&models.Seat{},
		&models.SeatSelection{},
		&models.OrderLine{},
	)
}

// SeedDatabase makes sure somebody can log in on a fresh install, and fills
// a small demo catalog when seedDemo is set.
func SeedDatabase(db *gorm.DB, s Settings) {
	// ---------------- Staff ----------------
	var staffCount int64
	db.Model(&models.StaffMember{}).Count(&staffCount)
	if staffCount == 0 && s.DefaultStaffCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(s.DefaultStaffCode)), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff code: %v", err)
		} else {
			staff := models.StaffMember{Name: "Manager", CodeHash: string(hash)}
			if err := db.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to create default staff member: %v", err)
			} else {
				log.Println("Default staff member seeded")
			}
		}
	}

	if !s.SeedDemo {
		return
	}

	// ---------------- Courses ----------------
	var courseCount int64
	db.Model(&models.Course{}).Count(&courseCount)
	if courseCount > 0 {
		log.Println("Catalog already seeded")
		return
	}

	courses := []models.Course{
		{Name: "Starter", Ordering: 10},
		{Name: "Main", Ordering: 20},
		{Name: "Dessert", Ordering: 30},
	}
	modifiers := []models.Modifier{
		{Label: "GF", Name: "Gluten-free"},
		{Label: "DF", Name: "Dairy-free"},
		{Label: "NUT", Name: "Nut allergy"},
	}
	temps := []models.Temperature{
		{Label: "R", Name: "Rare"},
		{Label: "MR", Name: "Medium-Rare"},
		{Label: "WD", Name: "Well-Done"},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}
		if err := tx.Create(&modifiers).Error; err != nil {
			return err
		}
		if err := tx.Create(&temps).Error; err != nil {
			return err
		}

		items := []models.MenuItem{
			{Name: "Soup of the Day", CourseID: courses[0].ID, Price: decimal.RequireFromString("7.50"), Modifiers: modifiers[:2]},
			{Name: "Beef Fillet", CourseID: courses[1].ID, Price: decimal.RequireFromString("28.00"), Modifiers: modifiers, Temperatures: temps},
			{Name: "Salmon", CourseID: courses[1].ID, Price: decimal.RequireFromString("24.00"), Modifiers: modifiers[:2], Temperatures: temps[:2]},
			{Name: "Chocolate Torte", CourseID: courses[2].ID, Price: decimal.RequireFromString("9.00"), Modifiers: modifiers[2:]},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		rooms := []models.Room{
			{Name: "Main Hall", Description: "Ground floor dining room"},
			{Name: "Patio", Description: "Outdoor seating"},
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return err
		}
		tables := make([]models.Table, 0, 10)
		for i := uint(1); i <= 6; i++ {
			tables = append(tables, models.Table{Number: i, RoomID: rooms[0].ID})
		}
		for i := uint(1); i <= 4; i++ {
			tables = append(tables, models.Table{Number: i, RoomID: rooms[1].ID})
		}
		return tx.Create(&tables).Error
	})
	if err != nil {
		log.Printf("warning: failed to seed demo catalog: %v", err)
		return
	}
	log.Println("Demo catalog seeded")
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "tableside")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase(s Settings) error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	level := logger.Warn
	if s.Debug {
		level = logger.Info
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger, TranslateError: true})
	if err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(s.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(s.DBMaxOpenConns / 2)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	DB = db

	if s.AutoMigrate {
		if err := Migrate(DB); err != nil {
			return err
		}
	}

	SeedDatabase(DB, s)
	return nil
}
