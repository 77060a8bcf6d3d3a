package ambee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.ambeedata.com"

// Client fetches pollen counts from Ambee.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ambee api key cannot be empty")
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Current retrieves a pollen score for a coordinate. The score is the mean
// of the grass, tree, and weed counts from the nearest reading.
func (c *Client) Current(ctx context.Context, lat, lon float64) (pollen *float64, raw []byte, err error) {
	endpoint := fmt.Sprintf("%s/latest/pollen/by-lat-lng?lat=%g&lng=%g", c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build ambee request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("ambee request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, nil, fmt.Errorf("ambee request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read ambee response: %w", err)
	}

	var parsed struct {
		Data []struct {
			GrassPollen float64 `json:"grass_pollen"`
			TreePollen  float64 `json:"tree_pollen"`
			WeedPollen  float64 `json:"weed_pollen"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("decode ambee response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, body, nil
	}
	counts := parsed.Data[0]
	score := (counts.GrassPollen + counts.TreePollen + counts.WeedPollen) / 3
	return &score, body, nil
}
