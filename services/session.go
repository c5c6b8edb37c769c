package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// StaffIdentity is the authenticated staff context carried by a session
// token and handed to every guarded handler.
type StaffIdentity struct {
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	ExpiresAt time.Time `json:"exp"`
}

// SessionManager issues and verifies HMAC-SHA256 signed session tokens of
// the form base64(payload).base64(signature).
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given staff member.
func (m *SessionManager) Issue(staffID uint, staffName string) (string, StaffIdentity, error) {
	id := StaffIdentity{
		StaffID:   staffID,
		StaffName: staffName,
		ExpiresAt: m.now().Add(m.ttl).UTC().Truncate(time.Second),
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return "", StaffIdentity{}, err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + m.sign(body), id, nil
}

// Parse verifies the signature and expiry and returns the identity.
func (m *SessionManager) Parse(token string) (StaffIdentity, error) {
	body, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || body == "" || sig == "" {
		return StaffIdentity{}, ErrInvalidSession
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(body))) {
		return StaffIdentity{}, ErrInvalidSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return StaffIdentity{}, ErrInvalidSession
	}
	var id StaffIdentity
	if err := json.Unmarshal(payload, &id); err != nil || id.StaffID == 0 {
		return StaffIdentity{}, ErrInvalidSession
	}
	if !m.now().Before(id.ExpiresAt) {
		return StaffIdentity{}, ErrSessionExpired
	}
	return id, nil
}

func (m *SessionManager) sign(body string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
