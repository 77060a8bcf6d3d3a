package openweather

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

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current weather from OpenWeather.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openweather api key cannot be empty")
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

// Current retrieves temperature and humidity for a coordinate. The raw body
// is returned alongside the parsed readings for archival.
func (c *Client) Current(ctx context.Context, lat, lon float64) (temperature, humidity *float64, raw []byte, err error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%g", lat))
	query.Set("lon", fmt.Sprintf("%g", lon))
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/weather?%s", c.baseURL, query.Encode())

	body, err := fetchJSON(ctx, c.httpClient, endpoint, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("openweather: %w", err)
	}

	var parsed struct {
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, nil, fmt.Errorf("decode openweather response: %w", err)
	}
	return parsed.Main.Temp, parsed.Main.Humidity, body, nil
}

// fetchJSON performs a GET and returns the body, failing on non-2xx status.
func fetchJSON(ctx context.Context, client *http.Client, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	return io.ReadAll(resp.Body)
}
