package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/climahealth/climahealth-api/internal/domain/auth"
	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/coach"
	"github.com/climahealth/climahealth-api/internal/domain/insight"
	"github.com/climahealth/climahealth-api/internal/domain/reward"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	"github.com/climahealth/climahealth-api/internal/infra/airquality/waqi"
	"github.com/climahealth/climahealth-api/internal/infra/climaterepo"
	"github.com/climahealth/climahealth-api/internal/infra/climatestore"
	"github.com/climahealth/climahealth-api/internal/infra/config"
	"github.com/climahealth/climahealth-api/internal/infra/conversationrepo"
	"github.com/climahealth/climahealth-api/internal/infra/llm/chatgpt"
	"github.com/climahealth/climahealth-api/internal/infra/pollen/ambee"
	"github.com/climahealth/climahealth-api/internal/infra/rawstore"
	"github.com/climahealth/climahealth-api/internal/infra/rewardrepo"
	"github.com/climahealth/climahealth-api/internal/infra/symptomrepo"
	"github.com/climahealth/climahealth-api/internal/infra/tokenizer"
	"github.com/climahealth/climahealth-api/internal/infra/userrepo"
	"github.com/climahealth/climahealth-api/internal/infra/weather/openweather"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func provideClimateConfig(cfg *config.Config) climate.Config {
	return climate.Config{CacheTTL: cfg.Climate.CacheTTL}
}

func provideInsightConfig(cfg *config.Config) insight.Config {
	return insight.Config{
		DefaultWindowDays: cfg.Insight.DefaultWindowDays,
		JoinTolerance:     cfg.Insight.JoinTolerance,
	}
}

func provideCoachConfig(cfg *config.Config) coach.Config {
	return coach.Config{
		Model:            cfg.LLM.Model,
		Temperature:      cfg.LLM.Temperature,
		MaxHistoryTokens: cfg.Coach.MaxHistoryTokens,
		MaxMessageLen:    cfg.Coach.MaxMessageLen,
	}
}

// providePostgresPool returns nil when no DSN is configured or the database
// is unreachable; repository providers then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

// provideValkeyClient returns nil when the cache is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.Valkey.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideSymptomRepository(pool *pgxpool.Pool) symptom.Repository {
	if pool == nil {
		return symptomrepo.NewMemoryRepository()
	}
	return symptomrepo.NewPostgresRepository(pool)
}

func provideClimateRepository(pool *pgxpool.Pool) climate.Repository {
	if pool == nil {
		return climaterepo.NewMemoryRepository()
	}
	return climaterepo.NewPostgresRepository(pool)
}

func provideClimateStore(client valkey.Client, cfg *config.Config) climate.Store {
	if client == nil {
		return climatestore.NewMemoryStore()
	}
	return climatestore.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) climate.Archive {
	if !cfg.Archive.Enabled {
		return rawstore.NewMemoryStore()
	}
	store, err := rawstore.NewMinioStore(cfg.Archive.Endpoint, cfg.Archive.AccessKey,
		cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.Region, logger)
	if err != nil {
		logger.Error("failed to initialize payload archive, using memory store", "error", err)
		return rawstore.NewMemoryStore()
	}
	logger.Info("payload archive enabled", "bucket", cfg.Archive.Bucket)
	return store
}

func provideWeatherProvider(cfg *config.Config, logger *slog.Logger) climate.WeatherProvider {
	client, err := openweather.NewClient(cfg.Providers.OpenWeather.APIKey, cfg.Providers.OpenWeather.BaseURL)
	if err != nil {
		logger.Warn("weather provider disabled", "error", err)
		return nil
	}
	return client
}

func provideAirQualityProvider(cfg *config.Config, logger *slog.Logger) climate.AirQualityProvider {
	client, err := waqi.NewClient(cfg.Providers.WAQI.APIKey, cfg.Providers.WAQI.BaseURL)
	if err != nil {
		logger.Warn("air quality provider disabled", "error", err)
		return nil
	}
	return client
}

func providePollenProvider(cfg *config.Config, logger *slog.Logger) climate.PollenProvider {
	client, err := ambee.NewClient(cfg.Providers.Ambee.APIKey, cfg.Providers.Ambee.BaseURL)
	if err != nil {
		logger.Info("pollen provider disabled, using weather estimate", "error", err)
		return nil
	}
	return client
}

func provideConversationRepository(pool *pgxpool.Pool) coach.Repository {
	if pool == nil {
		return conversationrepo.NewMemoryRepository()
	}
	return conversationrepo.NewPostgresRepository(pool)
}

func provideRewardRepository(pool *pgxpool.Pool) reward.Repository {
	if pool == nil {
		return rewardrepo.NewMemoryRepository()
	}
	return rewardrepo.NewPostgresRepository(pool)
}

func provideLeaderboard(client valkey.Client, cfg *config.Config) reward.Leaderboard {
	if client == nil {
		return rewardrepo.NewMemoryLeaderboard()
	}
	return rewardrepo.NewValkeyLeaderboard(client, cfg.Valkey.Prefix)
}

func provideCoachChatClient(cfg *config.Config, logger *slog.Logger) coach.ChatClient {
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Warn("chat client disabled, coach will use canned advice", "error", err)
		return nil
	}
	return client
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) coach.TokenCounter {
	counter, err := tokenizer.NewTiktokenCounter(cfg.LLM.Model)
	if err != nil {
		logger.Warn("token counter disabled, history budgeting off", "error", err)
		return nil
	}
	return counter
}

func provideConditionsSource(svc climate.Service) coach.ConditionsSource {
	return svc
}

func provideEntryFetcher(repo symptom.Repository) insight.EntryFetcher {
	return repo
}

func provideSampleFetcher(repo climate.Repository) insight.SampleFetcher {
	return repo
}
