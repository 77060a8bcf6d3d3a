package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climahealth/climahealth-api/internal/domain/reward"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

// CompleteActivity awards a badge and points for a finished activity.
func (h *Handler) CompleteActivity(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	var req reward.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	rewards, err := h.rewardSvc.Complete(c.Request.Context(), claims.UserID, req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "reward_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// GetRewards returns the caller's badges and points.
func (h *Handler) GetRewards(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	rewards, err := h.rewardSvc.Rewards(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "fetch_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// Leaderboard returns the top scorers.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	entries, err := h.rewardSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "fetch_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
