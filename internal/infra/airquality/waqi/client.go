package waqi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.waqi.info"

// Client fetches AQI readings from the World Air Quality Index project.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(token, baseURL string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("waqi token cannot be empty")
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Current retrieves the AQI for the station nearest the coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (aqi *float64, raw []byte, err error) {
	endpoint := fmt.Sprintf("%s/feed/geo:%g;%g/?token=%s", c.baseURL, lat, lon, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build waqi request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("waqi request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, nil, fmt.Errorf("waqi request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read waqi response: %w", err)
	}

	var parsed struct {
		Status string `json:"status"`
		Data   struct {
			AQI *float64 `json:"aqi"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("decode waqi response: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, nil, fmt.Errorf("waqi api error: status=%s", parsed.Status)
	}
	return parsed.Data.AQI, body, nil
}
