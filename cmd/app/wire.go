//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/climahealth/climahealth-api/internal/bootstrap"
	"github.com/climahealth/climahealth-api/internal/domain/auth"
	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/coach"
	"github.com/climahealth/climahealth-api/internal/domain/insight"
	"github.com/climahealth/climahealth-api/internal/domain/reward"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	"github.com/climahealth/climahealth-api/internal/infra/config"
	httpiface "github.com/climahealth/climahealth-api/internal/interface/http"
	"github.com/climahealth/climahealth-api/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideClimateConfig,
		provideInsightConfig,
		provideCoachConfig,
		providePostgresPool,
		provideValkeyClient,
		provideUserRepository,
		provideSymptomRepository,
		provideClimateRepository,
		provideClimateStore,
		provideArchive,
		provideWeatherProvider,
		provideAirQualityProvider,
		providePollenProvider,
		provideConversationRepository,
		provideRewardRepository,
		provideLeaderboard,
		provideCoachChatClient,
		provideTokenCounter,
		provideConditionsSource,
		provideEntryFetcher,
		provideSampleFetcher,
		auth.NewService,
		symptom.NewService,
		climate.NewService,
		insight.NewService,
		coach.NewService,
		reward.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
