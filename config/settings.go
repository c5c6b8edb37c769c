package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings is everything read from the environment at startup.
type Settings struct {
	Port             string
	Debug            bool
	CORSOrigins      []string
	SessionSecret    string
	SessionTTL       time.Duration
	AutoMigrate      bool
	SeedDemo         bool
	DefaultStaffCode string
	DBMaxOpenConns   int
}

// LoadSettings reads the environment. SESSION_SECRET may only be omitted in
// debug mode, where a fixed development secret is used.
func LoadSettings() (Settings, error) {
	s := Settings{
		Port:             envOrDefault("PORT", "8080"),
		Debug:            strings.EqualFold(envOrDefault("GIN_MODE", "debug"), "debug"),
		CORSOrigins:      parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		SessionSecret:    strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:       12 * time.Hour,
		AutoMigrate:      envBool("AUTO_MIGRATE", true),
		SeedDemo:         envBool("SEED_DEMO", false),
		DefaultStaffCode: strings.TrimSpace(os.Getenv("DEFAULT_STAFF_CODE")),
		DBMaxOpenConns:   20,
	}

	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return s, errors.New("SESSION_TTL must be a positive duration such as 12h")
		}
		s.SessionTTL = ttl
	}

	if raw := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return s, errors.New("DB_MAX_OPEN_CONNS must be a positive integer")
		}
		s.DBMaxOpenConns = n
	}

	if s.SessionSecret == "" {
		if !s.Debug {
			return s, errors.New("SESSION_SECRET environment variable is not set")
		}
		s.SessionSecret = "dev-only-session-secret"
	}

	return s, nil
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
