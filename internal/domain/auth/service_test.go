package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "User@Example.com",
		Password: "pass1234",
		Name:     "Asha Rao",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", view.Email)
	require.Equal(t, "Asha Rao", view.Name)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, view.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, resp.User.Email, refreshed.User.Email)
	require.Equal(t, "Asha Rao", refreshed.User.Name)
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
		Name:     "First",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
		Name:     "Second",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestService_UpdateProfile(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
		Name:     "Asha",
	})
	require.NoError(t, err)

	loc := climate.Location{Lat: 12.97, Lon: 77.59, City: "Bengaluru", Country: "IN"}
	updated, err := svc.UpdateProfile(context.Background(), view.ID, ProfileUpdateRequest{
		Location:    &loc,
		Preferences: &Preferences{Units: "metric", Notifications: true},
	})
	require.NoError(t, err)
	// Name untouched when not supplied.
	require.Equal(t, "Asha", updated.Name)
	require.Equal(t, "Bengaluru", updated.Location.City)
	require.True(t, updated.Preferences.Notifications)

	badLoc := climate.Location{Lat: 120}
	_, err = svc.UpdateProfile(context.Background(), view.ID, ProfileUpdateRequest{Location: &badLoc})
	require.Error(t, err)

	_, err = svc.UpdateProfile(context.Background(), view.ID, ProfileUpdateRequest{
		Preferences: &Preferences{Units: "furlongs"},
	})
	require.Error(t, err)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, email, name, passwordHash string) (User, error) {
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) UpdateProfile(_ context.Context, user User) (User, error) {
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetIdentity(_ context.Context, _, _ string) (Identity, bool, error) {
	return Identity{}, false, nil
}

func (m *memoryRepo) GetIdentityByUser(_ context.Context, _ int64, _ string) (Identity, bool, error) {
	return Identity{}, false, nil
}

func (m *memoryRepo) UpsertIdentity(_ context.Context, identity Identity) (Identity, error) {
	return identity, nil
}
