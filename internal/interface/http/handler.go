package http

import (
	"log/slog"

	"github.com/climahealth/climahealth-api/internal/domain/auth"
	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/coach"
	"github.com/climahealth/climahealth-api/internal/domain/insight"
	"github.com/climahealth/climahealth-api/internal/domain/reward"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	"github.com/climahealth/climahealth-api/internal/infra/config"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	symptomSvc symptom.Service
	climateSvc climate.Service
	insightSvc insight.Service
	coachSvc   coach.Service
	rewardSvc  reward.Service

	postLoginRedirect string
	logger            *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	cfg *config.Config,
	authSvc auth.Service,
	symptomSvc symptom.Service,
	climateSvc climate.Service,
	insightSvc insight.Service,
	coachSvc coach.Service,
	rewardSvc reward.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:           authSvc,
		symptomSvc:        symptomSvc,
		climateSvc:        climateSvc,
		insightSvc:        insightSvc,
		coachSvc:          coachSvc,
		rewardSvc:         rewardSvc,
		postLoginRedirect: cfg.Auth.Google.PostLoginRedirectURL,
		logger:            logger.With("component", "http.handler"),
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
