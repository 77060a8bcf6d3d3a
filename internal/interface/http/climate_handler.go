package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

// CurrentConditions fetches fresh environmental readings for a coordinate.
func (h *Handler) CurrentConditions(c *gin.Context) {
	loc, err := parseLocation(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	sample, err := h.climateSvc.FetchCurrent(c.Request.Context(), loc)
	if err != nil {
		status := http.StatusInternalServerError
		code := "climate_failed"
		if apperrors.IsCode(err, "storage_error") {
			code = "storage_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, sample)
}

// LatestConditions returns the most recent stored reading for a coordinate.
func (h *Handler) LatestConditions(c *gin.Context) {
	loc, err := parseLocation(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	sample, found, err := h.climateSvc.Latest(c.Request.Context(), loc)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "climate_failed", errMessage(err), err))
		return
	}
	if !found {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no conditions recorded for this location", nil))
		return
	}

	c.JSON(http.StatusOK, sample)
}

// TodayForecast returns today's risk outlook, recomputing on demand.
func (h *Handler) TodayForecast(c *gin.Context) {
	loc, err := parseLocation(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	recompute := false
	if raw := c.Query("recompute"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "recompute must be a boolean", err))
			return
		}
		recompute = parsed
	}

	sample, err := h.climateSvc.TodayForecast(c.Request.Context(), loc, recompute)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "climate_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, sample)
}

func parseLocation(c *gin.Context) (climate.Location, error) {
	latRaw := c.Query("lat")
	lonRaw := c.Query("lon")
	if latRaw == "" || lonRaw == "" {
		return climate.Location{}, errors.New("lat and lon are required")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return climate.Location{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return climate.Location{}, errors.New("lon must be a number")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return climate.Location{}, errors.New("coordinates out of range")
	}
	return climate.Location{
		Lat:     lat,
		Lon:     lon,
		City:    c.Query("city"),
		Country: c.Query("country"),
	}, nil
}
