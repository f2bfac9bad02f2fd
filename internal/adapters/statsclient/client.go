package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventboard/internal/domain"
)

type statsHTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient returns a StatsClient that talks to the stats collector
// at baseURL.
func NewHTTPClient(client *http.Client, baseURL string) domain.StatsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &statsHTTPClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *statsHTTPClient) RecordHit(ctx context.Context, hit domain.Hit) error {
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("stats collector returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *statsHTTPClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.URIStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(domain.DateTimeLayout))
	params.Set("end", end.Format(domain.DateTimeLayout))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	if unique {
		params.Set("unique", "true")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats collector returned status: %d", resp.StatusCode)
	}
	var stats []domain.URIStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return stats, nil
}
