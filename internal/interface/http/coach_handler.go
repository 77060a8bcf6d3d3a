package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

type coachMessagePayload struct {
	Message string `json:"message"`
}

// CoachMessage sends a user message to the asthma coach and returns its reply.
// The caller's home location anchors the environmental context.
func (h *Handler) CoachMessage(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	var req coachMessagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	var loc climate.Location
	if view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Warn("coach message without profile location", "user_id", claims.UserID, "error", err)
	} else {
		loc = view.Location
	}

	reply, err := h.coachSvc.Message(c.Request.Context(), claims.UserID, loc, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		code := "coach_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, reply)
}

// CoachHistory returns the caller's recent conversation turns.
func (h *Handler) CoachHistory(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	messages, err := h.coachSvc.History(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "fetch_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
