package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"tableside-backend/middleware"
	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Code string `json:"code" form:"code"`
}

type AuthController struct {
	Auth     services.StaffAuthenticator
	Sessions *services.SessionManager
	Audit    *services.AuditService
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
}

func NewAuthController(auth services.StaffAuthenticator, sessions *services.SessionManager, audit *services.AuditService) *AuthController {
	return &AuthController{Auth: auth, Sessions: sessions, Audit: audit}
}

// Login (POST /login) exchanges a staff code for a session.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	staff, err := ac.Auth.Authenticate(c.Request.Context(), payload.Code)
	if errors.Is(err, services.ErrInvalidCode) {
		utils.JSONErrorRedirect(c, http.StatusUnauthorized, "Invalid code – try again.", "/login")
		return
	}
	if err != nil {
		respondError(c, err, "/login")
		return
	}

	token, identity, err := ac.Sessions.Issue(staff.ID, staff.Name)
	if err != nil {
		respondError(c, err, "/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(ac.Sessions.TTL().Seconds()), "/", "", ac.SecureCookie, true)

	log.Printf("✅ staff %q logged in", staff.Name)
	ac.Audit.Record(c.Request.Context(), staff.ID, "logged in", nil)

	utils.JSONRedirect(c, http.StatusOK, "/rooms", gin.H{
		"token":      token,
		"expires_at": identity.ExpiresAt,
		"staff":      staff,
	})
}

// Logout (POST /logout) drops the session cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	if token := strings.TrimSpace(middleware.SessionToken(c)); token != "" {
		if id, err := ac.Sessions.Parse(token); err == nil {
			ac.Audit.Record(c.Request.Context(), id.StaffID, "logged out", nil)
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.SecureCookie, true)
	utils.JSONRedirect(c, http.StatusOK, "/login", nil)
}

// Me (GET /me) returns the session's staff identity.
func (ac *AuthController) Me(c *gin.Context) {
	id, ok := middleware.CurrentStaff(c)
	if !ok {
		utils.JSONErrorRedirect(c, http.StatusUnauthorized, "Please enter your staff code.", "/login")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, id)
}
