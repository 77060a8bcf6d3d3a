package auth

import (
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	Google          GoogleConfig
}

// GoogleConfig holds OAuth settings for Google sign-in.
type GoogleConfig struct {
	ClientID             string
	ClientSecret         string
	RedirectURL          string
	TokenEncryptionKey   string
	PostLoginRedirectURL string
}

// Preferences are per-user presentation and alerting settings.
type Preferences struct {
	Units         string `json:"units"`
	Notifications bool   `json:"notifications"`
}

// User represents a persisted account. Location is the user's home
// coordinate used as the default for forecasts and coaching context.
type User struct {
	ID           int64            `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	PasswordHash string           `json:"-"`
	Location     climate.Location `json:"location"`
	Preferences  Preferences      `json:"preferences"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Identity represents an external auth provider linkage.
type Identity struct {
	ID              int64
	UserID          int64
	Provider        string
	ProviderSubject string
	ProviderEmail   string
	RefreshToken    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token pair.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Location    climate.Location `json:"location"`
	Preferences Preferences      `json:"preferences"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ProfileUpdateRequest carries a partial profile change; nil fields are
// left untouched.
type ProfileUpdateRequest struct {
	Name        *string           `json:"name"`
	Location    *climate.Location `json:"location"`
	Preferences *Preferences      `json:"preferences"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    int64
	Email     string
	TokenType string
	ExpiresAt time.Time
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
