package coach

import (
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// Config drives coaching behavior.
type Config struct {
	Model            string
	Temperature      float32
	MaxHistoryTokens int
	MaxMessageLen    int
}

// DefaultConfig returns the coaching defaults.
func DefaultConfig() Config {
	return Config{
		Model:            "gpt-4o-mini",
		Temperature:      0.7,
		MaxHistoryTokens: 2000,
		MaxMessageLen:    1000,
	}
}

// Message is one turn of a persisted conversation.
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reply is the coach answer for one user message.
type Reply struct {
	Message   string            `json:"message"`
	RiskLevel climate.RiskLevel `json:"riskLevel"`
	// Fallback is true when the answer came from the canned advisory
	// instead of the language model.
	Fallback bool `json:"fallback"`
}
