package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/climahealth/climahealth-api/internal/domain/coach"
)

// TiktokenCounter counts model tokens using the encoding for a given model.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter builds a counter for the model's encoding.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding for %s: %w", model, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the token count of the text.
func (c *TiktokenCounter) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(c.encoding.Encode(text, nil, nil)), nil
}

var _ coach.TokenCounter = (*TiktokenCounter)(nil)
