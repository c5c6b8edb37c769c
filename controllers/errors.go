package controllers

import (
	"errors"
	"log"
	"net/http"

	"tableside-backend/services"
	"tableside-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. redirect is the
// screen the client should return to; it may be empty.
func respondError(c *gin.Context, err error, redirect string) {
	var vErr *services.ValidationError
	var cErr *services.ConflictError

	status := http.StatusInternalServerError
	body := gin.H{"status": "error", "message": err.Error()}

	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.As(err, &cErr):
		status = http.StatusConflict
		if len(cErr.Labels) > 0 {
			body["seats"] = cErr.Labels
		}
	case errors.Is(err, services.ErrNoOpenOrder), errors.Is(err, services.ErrOrderAlreadyOpen):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCode),
		errors.Is(err, services.ErrInvalidSession),
		errors.Is(err, services.ErrSessionExpired):
		status = http.StatusUnauthorized
		redirect = "/login"
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body["message"] = "Internal server error"
	}

	if redirect != "" {
		body["redirect"] = redirect
	}
	c.AbortWithStatusJSON(status, body)
}

func badID(c *gin.Context, what string) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid "+what+" id")
}
