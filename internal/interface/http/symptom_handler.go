package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

// LogSymptom records a new symptom entry for the caller.
func (h *Handler) LogSymptom(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	var req symptom.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	entry, err := h.symptomSvc.Log(c.Request.Context(), claims.UserID, req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "log_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// SymptomHistory returns a filtered, paginated listing of the caller's entries.
func (h *Handler) SymptomHistory(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	filter, err := parseHistoryFilter(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	page, err := h.symptomSvc.History(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		status := http.StatusInternalServerError
		code := "fetch_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSymptomLog returns a single entry by id.
func (h *Handler) GetSymptomLog(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid log id", err))
		return
	}

	entry, err := h.symptomSvc.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		status := http.StatusInternalServerError
		code := "fetch_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateSymptomLog replaces an entry's caller-supplied fields and rederives
// its severity classification.
func (h *Handler) UpdateSymptomLog(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid log id", err))
		return
	}

	var req symptom.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	entry, err := h.symptomSvc.Update(c.Request.Context(), claims.UserID, id, req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "update_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "not_found"):
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteSymptomLog removes an entry.
func (h *Handler) DeleteSymptomLog(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid log id", err))
		return
	}

	if err := h.symptomSvc.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		status := http.StatusInternalServerError
		code := "delete_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "symptom log deleted"})
}

// SymptomStats aggregates the caller's history over a period such as "30d".
func (h *Handler) SymptomStats(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	period := c.DefaultQuery("period", "30d")
	stats, err := h.symptomSvc.Stats(c.Request.Context(), claims.UserID, period)
	if err != nil {
		status := http.StatusInternalServerError
		code := "fetch_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SymptomInsights builds the symptom/environment correlation report.
func (h *Handler) SymptomInsights(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "days must be a non-negative integer", err))
			return
		}
		days = parsed
	}

	report, err := h.insightSvc.BuildReport(c.Request.Context(), claims.UserID, days)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "insights_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, report)
}

func parseHistoryFilter(c *gin.Context) (symptom.HistoryFilter, error) {
	filter := symptom.HistoryFilter{SortDesc: true}

	if raw := c.Query("severity"); raw != "" {
		filter.Severity = symptom.Severity(strings.ToLower(raw))
	}
	if raw := c.Query("attack"); raw != "" {
		attack, err := strconv.ParseBool(raw)
		if err != nil {
			return symptom.HistoryFilter{}, err
		}
		filter.HasAttack = &attack
	}
	if raw := c.Query("startDate"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			return symptom.HistoryFilter{}, err
		}
		filter.StartDate = &parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			return symptom.HistoryFilter{}, err
		}
		filter.EndDate = &parsed
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return symptom.HistoryFilter{}, err
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return symptom.HistoryFilter{}, err
		}
		filter.Limit = limit
	}
	if strings.EqualFold(c.Query("sort"), "asc") {
		filter.SortDesc = false
	}
	return filter, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
