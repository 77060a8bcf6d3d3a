package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/infra/llm/chatgpt"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
	"github.com/climahealth/climahealth-api/pkg/metrics"
)

const systemPromptTemplate = `You are ClimaHealth AI, a friendly coach for young asthma patients.
Use short, clear sentences. Include 1-2 actionable tips. If risk is High, advise precautions.
Context: %s`

// ChatClient is the language model dependency.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ConditionsSource supplies the latest environmental context for a location.
type ConditionsSource interface {
	Latest(ctx context.Context, loc climate.Location) (climate.Sample, bool, error)
}

// TokenCounter estimates the model token cost of a text.
type TokenCounter interface {
	Count(text string) (int, error)
}

// Service exposes the asthma coach.
type Service interface {
	Message(ctx context.Context, userID int64, loc climate.Location, text string) (Reply, error)
	History(ctx context.Context, userID int64, limit int) ([]Message, error)
}

type service struct {
	cfg        Config
	repo       Repository
	client     ChatClient
	conditions ConditionsSource
	tokens     TokenCounter
	logger     *slog.Logger
}

// NewService wires up the coach. A nil chat client forces fallback replies;
// a nil token counter disables history budgeting.
func NewService(cfg Config, repo Repository, client ChatClient, conditions ConditionsSource, tokens TokenCounter, logger *slog.Logger) Service {
	if cfg.Model == "" {
		cfg = DefaultConfig()
	}
	return &service{
		cfg:        cfg,
		repo:       repo,
		client:     client,
		conditions: conditions,
		tokens:     tokens,
		logger:     logger.With("component", "coach.service"),
	}
}

func (s *service) Message(ctx context.Context, userID int64, loc climate.Location, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, apperrors.Wrap("invalid_input", "message cannot be empty", nil)
	}
	if s.cfg.MaxMessageLen > 0 && len([]rune(text)) > s.cfg.MaxMessageLen {
		return Reply{}, apperrors.Wrap("invalid_input", "message too long", nil)
	}

	risk := climate.RiskLow
	var sample *climate.Sample
	if s.conditions != nil {
		latest, found, err := s.conditions.Latest(ctx, loc)
		if err != nil {
			s.logger.Warn("failed to load conditions for coach context", "error", err)
		} else if found {
			sample = &latest
			risk = latest.RiskLevel
		}
	}

	if _, err := s.repo.Append(ctx, Message{UserID: userID, Role: "user", Content: text}); err != nil {
		return Reply{}, apperrors.Wrap("storage_error", "failed to store message", err)
	}

	answer, fallback := s.answer(ctx, userID, text, risk, sample)

	if _, err := s.repo.Append(ctx, Message{UserID: userID, Role: "assistant", Content: answer}); err != nil {
		return Reply{}, apperrors.Wrap("storage_error", "failed to store reply", err)
	}

	return Reply{Message: answer, RiskLevel: risk, Fallback: fallback}, nil
}

func (s *service) History(ctx context.Context, userID int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	messages, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load conversation", err)
	}
	return messages, nil
}

func (s *service) answer(ctx context.Context, userID int64, text string, risk climate.RiskLevel, sample *climate.Sample) (string, bool) {
	if s.client == nil {
		return fallbackAdvice(risk), true
	}

	messages := s.buildMessages(ctx, userID, text, sample)
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("chat completion failed, serving fallback", "error", err)
		return "I had trouble reaching the AI service. For now: check AQI, avoid smoke, carry your inhaler.", true
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "Stay safe and monitor your symptoms.", true
	}
	return resp.Choices[0].Message.Content, false
}

// buildMessages assembles the prompt: system context, then as much recent
// history as fits the token budget, then the new user message.
func (s *service) buildMessages(ctx context.Context, userID int64, text string, sample *climate.Sample) []chatgpt.Message {
	prompt := systemPrompt(sample)
	out := []chatgpt.Message{{Role: "system", Content: prompt}}

	history, err := s.repo.Recent(ctx, userID, 20)
	if err != nil {
		s.logger.Warn("failed to load conversation history", "error", err)
		history = nil
	}
	out = append(out, s.trimHistory(history, text)...)
	out = append(out, chatgpt.Message{Role: "user", Content: text})
	return out
}

// trimHistory keeps the newest turns whose combined token count stays under
// the budget. The current message is excluded from history; the repo returns
// it as the most recent turn after Append.
func (s *service) trimHistory(history []Message, current string) []chatgpt.Message {
	if len(history) == 0 || s.tokens == nil || s.cfg.MaxHistoryTokens <= 0 {
		return nil
	}

	usage := metrics.TokenUsage{}
	kept := make([]chatgpt.Message, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == "user" && msg.Content == current {
			continue
		}
		count, err := s.tokens.Count(msg.Content)
		if err != nil {
			s.logger.Warn("token count failed, dropping older history", "error", err)
			break
		}
		if usage.PromptTokens+count > s.cfg.MaxHistoryTokens {
			break
		}
		usage.PromptTokens += count
		kept = append(kept, chatgpt.Message{Role: msg.Role, Content: msg.Content})
	}

	// Restore chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

func systemPrompt(sample *climate.Sample) string {
	context := map[string]any{}
	if sample != nil {
		context["riskLevel"] = sample.RiskLevel
		if sample.AQI != nil {
			context["aqi"] = *sample.AQI
		}
		if sample.Temperature != nil {
			context["temperature"] = *sample.Temperature
		}
		if sample.Humidity != nil {
			context["humidity"] = *sample.Humidity
		}
		if sample.Pollen != nil {
			context["pollen"] = *sample.Pollen
		}
	}
	encoded, err := json.Marshal(context)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf(systemPromptTemplate, encoded)
}

func fallbackAdvice(risk climate.RiskLevel) string {
	switch risk {
	case climate.RiskHigh:
		return "Air quality is poor today. Limit outdoor time, wear a mask outside, and keep your reliever inhaler with you."
	case climate.RiskModerate:
		return "Conditions are moderate. Avoid strenuous outdoor activity at peak hours and stay hydrated."
	default:
		return "Risk is low today. Enjoy your day and keep an eye on any symptoms."
	}
}
