package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/climahealth/climahealth-api/internal/domain/auth"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

// Register creates a new account with email and password.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "registration_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "email_exists"):
			status = http.StatusConflict
			code = "email_exists"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "login_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			code = "invalid_credentials"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token into a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status := http.StatusInternalServerError
		code := "refresh_failed"
		if apperrors.IsCode(err, "invalid_token") || apperrors.IsCode(err, "user_not_found") {
			status = http.StatusUnauthorized
			code = "invalid_token"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout invalidates the caller's server-side session state.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims.UserID); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "logout_failed", errMessage(err), err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GoogleAuthURL starts the Google sign-in flow with PKCE.
func (h *Handler) GoogleAuthURL(c *gin.Context) {
	state, codeVerifier, codeChallenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "oauth_failed", "failed to create oauth state", err))
		return
	}

	authURL, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state, codeChallenge)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "oauth_unavailable", errMessage(err), err))
		return
	}

	setOAuthStateCookie(c, state, codeVerifier)
	c.JSON(http.StatusOK, gin.H{"url": authURL})
}

// GoogleCallback completes the Google sign-in flow.
func (h *Handler) GoogleCallback(c *gin.Context) {
	cookie, ok := readOAuthStateCookie(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing or malformed oauth state", nil))
		return
	}
	clearOAuthStateCookie(c)

	if state := c.Query("state"); state == "" || state != cookie.State {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oauth state mismatch", nil))
		return
	}

	resp, err := h.authSvc.GoogleCallback(c.Request.Context(), c.Query("code"), cookie.CodeVerifier)
	if err != nil {
		status := http.StatusInternalServerError
		code := "oauth_failed"
		switch {
		case apperrors.IsCode(err, "invalid_request"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "oauth_exchange_failed"):
			status = http.StatusBadGateway
			code = "oauth_exchange_failed"
		case apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			code = "invalid_credentials"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	if h.postLoginRedirect != "" {
		fragment := url.Values{
			"token":        {resp.Token},
			"refreshToken": {resp.RefreshToken},
		}
		c.Redirect(http.StatusFound, h.postLoginRedirect+"#"+fragment.Encode())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the caller's account.
func (h *Handler) GetProfile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "fetch_failed"
		if apperrors.IsCode(err, "user_not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateProfile applies a partial change to the caller's account.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}

	var req auth.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "update_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "user_not_found"):
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, view)
}
