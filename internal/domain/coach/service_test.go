package coach

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/infra/llm/chatgpt"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

type stubCoachRepo struct {
	messages []Message
	seq      int64
}

func (r *stubCoachRepo) Append(_ context.Context, msg Message) (Message, error) {
	r.seq++
	msg.ID = r.seq
	msg.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *stubCoachRepo) Recent(_ context.Context, userID int64, limit int) ([]Message, error) {
	var out []Message
	for _, msg := range r.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type stubChat struct {
	reply    string
	err      error
	requests []chatgpt.ChatCompletionRequest
}

func (c *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return chatgpt.ChatCompletionResponse{}, c.err
	}
	var resp chatgpt.ChatCompletionResponse
	resp.Choices = []struct {
		Message chatgpt.Message `json:"message"`
	}{{Message: chatgpt.Message{Role: "assistant", Content: c.reply}}}
	return resp, nil
}

type stubConditions struct {
	sample climate.Sample
	found  bool
	err    error
}

func (c *stubConditions) Latest(_ context.Context, _ climate.Location) (climate.Sample, bool, error) {
	return c.sample, c.found, c.err
}

type wordCounter struct{}

func (wordCounter) Count(text string) (int, error) { return len(text), nil }

func newCoachService(repo Repository, client ChatClient, conditions ConditionsSource, tokens TokenCounter) Service {
	return NewService(DefaultConfig(), repo, client, conditions, tokens,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMessageUsesModelReplyAndPersistsBothTurns(t *testing.T) {
	repo := &stubCoachRepo{}
	chat := &stubChat{reply: "Keep your inhaler handy today."}
	svc := newCoachService(repo, chat, &stubConditions{
		sample: climate.Sample{RiskLevel: climate.RiskModerate},
		found:  true,
	}, wordCounter{})

	reply, err := svc.Message(context.Background(), 1, climate.Location{}, "Can I play outside?")
	require.NoError(t, err)
	require.False(t, reply.Fallback)
	require.Equal(t, "Keep your inhaler handy today.", reply.Message)
	require.Equal(t, climate.RiskModerate, reply.RiskLevel)

	require.Len(t, repo.messages, 2)
	require.Equal(t, "user", repo.messages[0].Role)
	require.Equal(t, "assistant", repo.messages[1].Role)

	// The system prompt carries the conditions context.
	require.NotEmpty(t, chat.requests)
	require.Equal(t, "system", chat.requests[0].Messages[0].Role)
	require.Contains(t, chat.requests[0].Messages[0].Content, "ClimaHealth AI")
	require.Contains(t, chat.requests[0].Messages[0].Content, "Moderate")
}

func TestMessageFallsBackWhenModelFails(t *testing.T) {
	repo := &stubCoachRepo{}
	svc := newCoachService(repo, &stubChat{err: errors.New("quota")}, &stubConditions{}, wordCounter{})

	reply, err := svc.Message(context.Background(), 1, climate.Location{}, "hello")
	require.NoError(t, err)
	require.True(t, reply.Fallback)
	require.Contains(t, reply.Message, "trouble reaching the AI service")
	require.Len(t, repo.messages, 2)
}

func TestMessageFallbackByRiskWithoutClient(t *testing.T) {
	cases := []struct {
		risk climate.RiskLevel
		want string
	}{
		{climate.RiskHigh, "Air quality is poor today."},
		{climate.RiskModerate, "Conditions are moderate."},
		{climate.RiskLow, "Risk is low today."},
	}
	for _, tc := range cases {
		repo := &stubCoachRepo{}
		svc := newCoachService(repo, nil, &stubConditions{
			sample: climate.Sample{RiskLevel: tc.risk},
			found:  true,
		}, nil)

		reply, err := svc.Message(context.Background(), 1, climate.Location{}, "hi")
		require.NoError(t, err)
		require.True(t, reply.Fallback)
		require.Contains(t, reply.Message, tc.want)
		require.Equal(t, tc.risk, reply.RiskLevel)
	}
}

func TestMessageRejectsEmptyAndOversized(t *testing.T) {
	svc := newCoachService(&stubCoachRepo{}, nil, &stubConditions{}, nil)

	_, err := svc.Message(context.Background(), 1, climate.Location{}, "   ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Message(context.Background(), 1, climate.Location{}, string(long))
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestMessageConditionsFailureDegradesToLow(t *testing.T) {
	repo := &stubCoachRepo{}
	svc := newCoachService(repo, nil, &stubConditions{err: errors.New("cache down")}, nil)

	reply, err := svc.Message(context.Background(), 1, climate.Location{}, "hi")
	require.NoError(t, err)
	require.Equal(t, climate.RiskLow, reply.RiskLevel)
}

func TestHistoryTrimmingRespectsTokenBudget(t *testing.T) {
	repo := &stubCoachRepo{}
	chat := &stubChat{reply: "ok"}
	cfg := DefaultConfig()
	cfg.MaxHistoryTokens = 20
	svc := NewService(cfg, repo, chat, &stubConditions{}, wordCounter{},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Seed turns whose character counts exceed the budget.
	for _, content := range []string{"older message one", "older message two", "short"} {
		_, err := repo.Append(context.Background(), Message{UserID: 1, Role: "user", Content: content})
		require.NoError(t, err)
	}

	_, err := svc.Message(context.Background(), 1, climate.Location{}, "newest question")
	require.NoError(t, err)

	require.NotEmpty(t, chat.requests)
	msgs := chat.requests[0].Messages
	// system + whatever history fits + current user message.
	require.Equal(t, "system", msgs[0].Role)
	require.Equal(t, "newest question", msgs[len(msgs)-1].Content)
	// Only the 5-char "short" turn fits the 20-token budget.
	require.Len(t, msgs, 3)
	require.Equal(t, "short", msgs[1].Content)
}

func TestHistoryReturnsRecentTurns(t *testing.T) {
	repo := &stubCoachRepo{}
	svc := newCoachService(repo, nil, &stubConditions{}, nil)

	_, err := svc.Message(context.Background(), 1, climate.Location{}, "first")
	require.NoError(t, err)
	_, err = svc.Message(context.Background(), 1, climate.Location{}, "second")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 4)
	require.Equal(t, "first", history[0].Content)
}
