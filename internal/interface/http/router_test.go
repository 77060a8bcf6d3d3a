package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/auth"
	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/coach"
	"github.com/climahealth/climahealth-api/internal/domain/insight"
	"github.com/climahealth/climahealth-api/internal/domain/reward"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	"github.com/climahealth/climahealth-api/internal/infra/config"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

const testUserID int64 = 7

func TestRouter_RegisterSuccess(t *testing.T) {
	services := newStubServices()
	services.auth.registerFn = func(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
		require.Equal(t, "kid@example.com", req.Email)
		return auth.UserView{ID: testUserID, Email: req.Email, Name: "Kid"}, nil
	}

	rec := performRequest(http.MethodPost, "/api/v1/auth/register",
		`{"email":"kid@example.com","password":"sup3rsecret","name":"Kid"}`, "", newRouterUnderTest(t, services))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got auth.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, testUserID, got.ID)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	services := newStubServices()
	services.auth.loginFn = func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
		return auth.LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email or password", nil)
	}

	rec := performRequest(http.MethodPost, "/api/v1/auth/login",
		`{"email":"kid@example.com","password":"wrong"}`, "", newRouterUnderTest(t, services))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_credentials", errBody["error"]["code"])
}

func TestRouter_LogSymptomRequiresAuth(t *testing.T) {
	rec := performRequest(http.MethodPost, "/api/v1/symptoms/log",
		`{"symptoms":{"wheezing":3,"cough":2}}`, "", newRouterUnderTest(t, newStubServices()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "unauthorized", errBody["error"]["code"])
}

func TestRouter_LogSymptomSuccess(t *testing.T) {
	services := newStubServices()
	services.symptom.logFn = func(ctx context.Context, userID int64, req symptom.LogRequest) (symptom.Entry, error) {
		require.Equal(t, testUserID, userID)
		require.Equal(t, 3, req.Symptoms.Wheezing)
		return symptom.Entry{ID: uuid.New(), UserID: userID, Severity: symptom.SeverityModerate}, nil
	}

	rec := performRequest(http.MethodPost, "/api/v1/symptoms/log",
		`{"symptoms":{"wheezing":3,"cough":2}}`, "good-token", newRouterUnderTest(t, services))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got symptom.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, symptom.SeverityModerate, got.Severity)
}

func TestRouter_SymptomHistoryFilters(t *testing.T) {
	services := newStubServices()
	services.symptom.historyFn = func(ctx context.Context, userID int64, filter symptom.HistoryFilter) (symptom.HistoryPage, error) {
		require.Equal(t, symptom.SeverityModerate, filter.Severity)
		require.NotNil(t, filter.HasAttack)
		require.True(t, *filter.HasAttack)
		require.Equal(t, 2, filter.Page)
		require.False(t, filter.SortDesc)
		return symptom.HistoryPage{CurrentPage: 2, TotalPages: 3, TotalLogs: 25}, nil
	}

	rec := performRequest(http.MethodGet,
		"/api/v1/symptoms/history?severity=moderate&attack=true&page=2&sort=asc", "", "good-token",
		newRouterUnderTest(t, services))
	require.Equal(t, http.StatusOK, rec.Code)

	var got symptom.HistoryPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 25, got.TotalLogs)
}

func TestRouter_CurrentConditionsMissingCoordinates(t *testing.T) {
	rec := performRequest(http.MethodGet, "/api/v1/climate/current", "", "", newRouterUnderTest(t, newStubServices()))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_CurrentConditionsSuccess(t *testing.T) {
	aqi := 120.0
	services := newStubServices()
	services.climate.fetchCurrentFn = func(ctx context.Context, loc climate.Location) (climate.Sample, error) {
		require.InDelta(t, 12.97, loc.Lat, 0.001)
		require.InDelta(t, 77.59, loc.Lon, 0.001)
		return climate.Sample{Location: loc, AQI: &aqi, RiskLevel: climate.RiskModerate}, nil
	}

	rec := performRequest(http.MethodGet, "/api/v1/climate/current?lat=12.97&lon=77.59", "", "",
		newRouterUnderTest(t, services))
	require.Equal(t, http.StatusOK, rec.Code)

	var got climate.Sample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, climate.RiskModerate, got.RiskLevel)
	require.NotNil(t, got.AQI)
}

func TestRouter_SymptomInsightsWindow(t *testing.T) {
	services := newStubServices()
	services.insight.buildReportFn = func(ctx context.Context, userID int64, windowDays int) (insight.Report, error) {
		require.Equal(t, testUserID, userID)
		require.Equal(t, 14, windowDays)
		return insight.Report{}, nil
	}

	rec := performRequest(http.MethodGet, "/api/v1/symptoms/insights?days=14", "", "good-token",
		newRouterUnderTest(t, services))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CoachMessageUsesProfileLocation(t *testing.T) {
	services := newStubServices()
	services.auth.profileFn = func(ctx context.Context, userID int64) (auth.UserView, error) {
		return auth.UserView{ID: userID, Location: climate.Location{Lat: 12.97, Lon: 77.59}}, nil
	}
	services.coach.messageFn = func(ctx context.Context, userID int64, loc climate.Location, text string) (coach.Reply, error) {
		require.Equal(t, testUserID, userID)
		require.InDelta(t, 12.97, loc.Lat, 0.001)
		require.Equal(t, "is it safe to play outside?", text)
		return coach.Reply{Message: "Air quality is moderate today.", RiskLevel: climate.RiskModerate}, nil
	}

	rec := performRequest(http.MethodPost, "/api/v1/coach/message",
		`{"message":"is it safe to play outside?"}`, "good-token", newRouterUnderTest(t, services))
	require.Equal(t, http.StatusOK, rec.Code)

	var got coach.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, climate.RiskModerate, got.RiskLevel)
}

func TestRouter_LeaderboardLimit(t *testing.T) {
	services := newStubServices()
	services.reward.leaderboardFn = func(ctx context.Context, limit int) ([]reward.LeaderboardEntry, error) {
		require.Equal(t, 3, limit)
		return []reward.LeaderboardEntry{{UserID: 1, Points: 80, Rank: 1}}, nil
	}

	rec := performRequest(http.MethodGet, "/api/v1/game/leaderboard?limit=3", "", "good-token",
		newRouterUnderTest(t, services))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string][]reward.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got["leaderboard"], 1)
	require.Equal(t, 1, got["leaderboard"][0].Rank)
}

func performRequest(method, path, body, token string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

type stubServices struct {
	auth    *stubAuthService
	symptom *stubSymptomService
	climate *stubClimateService
	insight *stubInsightService
	coach   *stubCoachService
	reward  *stubRewardService
}

func newStubServices() stubServices {
	return stubServices{
		auth:    &stubAuthService{},
		symptom: &stubSymptomService{},
		climate: &stubClimateService{},
		insight: &stubInsightService{},
		coach:   &stubCoachService{},
		reward:  &stubRewardService{},
	}
}

func newRouterUnderTest(t *testing.T, services stubServices) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	handler := NewHandler(cfg, services.auth, services.symptom, services.climate,
		services.insight, services.coach, services.reward, newTestLogger())
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubAuthService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	profileFn  func(ctx context.Context, userID int64) (auth.UserView, error)
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return auth.UserView{}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) GoogleAuthURL(ctx context.Context, state, codeChallenge string) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth", nil
}

func (s *stubAuthService) GoogleCallback(ctx context.Context, code, codeVerifier string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (auth.Claims, error) {
	if token != "good-token" {
		return auth.Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	return auth.Claims{UserID: testUserID, Email: "kid@example.com", TokenType: "access"}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) Profile(ctx context.Context, userID int64) (auth.UserView, error) {
	if s.profileFn != nil {
		return s.profileFn(ctx, userID)
	}
	return auth.UserView{ID: userID}, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID int64, req auth.ProfileUpdateRequest) (auth.UserView, error) {
	return auth.UserView{ID: userID}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, userID int64) error {
	return nil
}

type stubSymptomService struct {
	logFn     func(ctx context.Context, userID int64, req symptom.LogRequest) (symptom.Entry, error)
	historyFn func(ctx context.Context, userID int64, filter symptom.HistoryFilter) (symptom.HistoryPage, error)
}

func (s *stubSymptomService) Log(ctx context.Context, userID int64, req symptom.LogRequest) (symptom.Entry, error) {
	if s.logFn != nil {
		return s.logFn(ctx, userID, req)
	}
	return symptom.Entry{}, nil
}

func (s *stubSymptomService) History(ctx context.Context, userID int64, filter symptom.HistoryFilter) (symptom.HistoryPage, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, userID, filter)
	}
	return symptom.HistoryPage{}, nil
}

func (s *stubSymptomService) Get(ctx context.Context, userID int64, id uuid.UUID) (symptom.Entry, error) {
	return symptom.Entry{}, nil
}

func (s *stubSymptomService) Update(ctx context.Context, userID int64, id uuid.UUID, req symptom.LogRequest) (symptom.Entry, error) {
	return symptom.Entry{}, nil
}

func (s *stubSymptomService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	return nil
}

func (s *stubSymptomService) Stats(ctx context.Context, userID int64, period string) (symptom.Stats, error) {
	return symptom.Stats{}, nil
}

type stubClimateService struct {
	fetchCurrentFn func(ctx context.Context, loc climate.Location) (climate.Sample, error)
}

func (s *stubClimateService) FetchCurrent(ctx context.Context, loc climate.Location) (climate.Sample, error) {
	if s.fetchCurrentFn != nil {
		return s.fetchCurrentFn(ctx, loc)
	}
	return climate.Sample{}, nil
}

func (s *stubClimateService) Latest(ctx context.Context, loc climate.Location) (climate.Sample, bool, error) {
	return climate.Sample{}, false, nil
}

func (s *stubClimateService) TodayForecast(ctx context.Context, loc climate.Location, recompute bool) (climate.Sample, error) {
	return climate.Sample{}, nil
}

type stubInsightService struct {
	buildReportFn func(ctx context.Context, userID int64, windowDays int) (insight.Report, error)
}

func (s *stubInsightService) BuildReport(ctx context.Context, userID int64, windowDays int) (insight.Report, error) {
	if s.buildReportFn != nil {
		return s.buildReportFn(ctx, userID, windowDays)
	}
	return insight.Report{}, nil
}

type stubCoachService struct {
	messageFn func(ctx context.Context, userID int64, loc climate.Location, text string) (coach.Reply, error)
}

func (s *stubCoachService) Message(ctx context.Context, userID int64, loc climate.Location, text string) (coach.Reply, error) {
	if s.messageFn != nil {
		return s.messageFn(ctx, userID, loc, text)
	}
	return coach.Reply{}, nil
}

func (s *stubCoachService) History(ctx context.Context, userID int64, limit int) ([]coach.Message, error) {
	return nil, nil
}

type stubRewardService struct {
	leaderboardFn func(ctx context.Context, limit int) ([]reward.LeaderboardEntry, error)
}

func (s *stubRewardService) Complete(ctx context.Context, userID int64, req reward.CompleteRequest) (reward.Rewards, error) {
	return reward.Rewards{}, nil
}

func (s *stubRewardService) Rewards(ctx context.Context, userID int64) (reward.Rewards, error) {
	return reward.Rewards{}, nil
}

func (s *stubRewardService) Leaderboard(ctx context.Context, limit int) ([]reward.LeaderboardEntry, error) {
	if s.leaderboardFn != nil {
		return s.leaderboardFn(ctx, limit)
	}
	return nil, nil
}
