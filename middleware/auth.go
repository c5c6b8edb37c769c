package middleware

import (
	"net/http"
	"strings"

	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "staff_session"
	staffKey      = "staff"
)

// SessionToken returns the bearer token or, failing that, the session
// cookie.
func SessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// StaffRequired lets the request through only with a valid staff session
// and stores the identity for CurrentStaff.
func StaffRequired(sessions *services.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			utils.JSONErrorRedirect(c, http.StatusUnauthorized, "Please enter your staff code.", "/login")
			return
		}
		id, err := sessions.Parse(token)
		if err != nil {
			utils.JSONErrorRedirect(c, http.StatusUnauthorized, "Please enter your staff code.", "/login")
			return
		}
		c.Set(staffKey, id)
		c.Next()
	}
}

// CurrentStaff is the identity StaffRequired stored on the context.
func CurrentStaff(c *gin.Context) (services.StaffIdentity, bool) {
	v, ok := c.Get(staffKey)
	if !ok {
		return services.StaffIdentity{}, false
	}
	id, ok := v.(services.StaffIdentity)
	return id, ok
}

// CurrentStaffID is CurrentStaff's id, or 0 without a session.
func CurrentStaffID(c *gin.Context) uint {
	id, _ := CurrentStaff(c)
	return id.StaffID
}
