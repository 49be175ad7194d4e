package odds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.prizepicks.com/projections"
	// UnrivaledLeagueID is the projections API league id of Unrivaled.
	UnrivaledLeagueID = "288"

	userAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Mobile Safari/537.36"
	maxBody   = 8 << 20
)

// Client checks the projections API for league availability
type Client struct {
	baseURL    string
	leagueID   string
	httpClient *http.Client
}

// NewClient creates a projections API client
func NewClient(baseURL, leagueID string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if leagueID == "" {
		leagueID = UnrivaledLeagueID
	}
	return &Client{
		baseURL:    baseURL,
		leagueID:   leagueID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Availability is the outcome of one league poll
type Availability struct {
	LeagueID    string `json:"league_id"`
	Available   bool   `json:"available"`
	Projections int    `json:"projections"`
}

// LeagueAvailable reports whether the league currently has projections
// posted. Transport failures, non-2xx responses and undecodable bodies are
// upstream errors.
func (c *Client) LeagueAvailable(ctx context.Context) (*Availability, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.projectionsURL(), nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to poll UNR league.", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://app.prizepicks.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LeaguePollsTotal.WithLabelValues("error").Inc()
		return nil, apperr.Upstream("Failed to poll UNR league.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.LeaguePollsTotal.WithLabelValues("error").Inc()
		return nil, apperr.Upstream("Failed to poll UNR league.", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.LeaguePollsTotal.WithLabelValues("error").Inc()
		return nil, apperr.Upstream("Failed to poll UNR league.", fmt.Errorf("projections API returned status %d", resp.StatusCode))
	}

	count, err := CountProjections(body)
	if err != nil {
		metrics.LeaguePollsTotal.WithLabelValues("error").Inc()
		return nil, apperr.Upstream("Failed to poll UNR league.", err)
	}

	out := &Availability{LeagueID: c.leagueID, Available: count > 0, Projections: count}
	result := "unavailable"
	if out.Available {
		result = "available"
	}
	metrics.LeaguePollsTotal.WithLabelValues(result).Inc()

	log.Debug().
		Str("league_id", c.leagueID).
		Int("projections", count).
		Dur("duration", time.Since(start)).
		Msg("league poll finished")

	return out, nil
}

func (c *Client) projectionsURL() string {
	q := url.Values{}
	q.Set("league_id", c.leagueID)
	q.Set("per_page", "250")
	q.Set("single_stat", "true")
	return c.baseURL + "?" + q.Encode()
}

// CountProjections counts the projections in a response body. Both the
// enveloped form {"data": [...]} and a bare array are accepted; any other
// JSON value counts as zero.
func CountProjections(body []byte) (int, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return 0, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, fmt.Errorf("decoding projections response: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		return len(v), nil
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			return len(data), nil
		}
	}
	return 0, nil
}
