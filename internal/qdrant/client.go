// Package qdrant implements the vector index client against the Qdrant REST
// API. It stores one point per (player, season, week, stat) performance and
// serves filtered cosine-similarity searches over them.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

// Client talks to one Qdrant collection.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given Qdrant URL and collection.
func NewClient(baseURL, collection string, logger *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		collection: collection,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureCollection creates the collection with cosine distance if it does not
// exist yet. Safe to call on every startup.
func (c *Client) EnsureCollection(ctx context.Context, vectorSize int) error {
	status, _, err := c.do(ctx, http.MethodGet, "/collections/"+c.collection, nil)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("check collection: unexpected status %d", status)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	status, _, err = c.do(ctx, http.MethodPut, "/collections/"+c.collection, body)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("create collection: unexpected status %d", status)
	}

	c.logger.Infow("Qdrant collection created", "collection", c.collection, "vector_size", vectorSize)
	return nil
}

type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type upsertPoint struct {
	ID      string                    `json:"id"`
	Vector  []float32                 `json:"vector"`
	Payload models.PerformancePayload `json:"payload"`
}

// Upsert writes points into the collection. Point IDs are deterministic per
// performance, so re-ingesting the same sample overwrites in place.
func (c *Client) Upsert(ctx context.Context, points []models.PerformancePoint) error {
	if len(points) == 0 {
		return nil
	}

	req := upsertRequest{Points: make([]upsertPoint, 0, len(points))}
	for _, p := range points {
		req.Points = append(req.Points, upsertPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
	}

	operation := func() error {
		status, raw, err := c.do(ctx, http.MethodPut, "/collections/"+c.collection+"/points?wait=true", req)
		if err != nil {
			return err
		}
		if status >= 500 {
			return fmt.Errorf("upsert status %d", status)
		}
		if status != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("upsert status %d: %s", status, truncate(raw, 200)))
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}

	c.logger.Debugw("Points upserted", "collection", c.collection, "count", len(points))
	return nil
}

type searchRequest struct {
	Vector         []float32     `json:"vector"`
	Filter         *searchFilter `json:"filter,omitempty"`
	Limit          int           `json:"limit"`
	ScoreThreshold float64       `json:"score_threshold,omitempty"`
	WithPayload    bool          `json:"with_payload"`
}

type searchFilter struct {
	Must []fieldCondition `json:"must"`
}

type fieldCondition struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value any `json:"value"`
}

type searchResponse struct {
	Result []struct {
		ID      string                    `json:"id"`
		Score   float64                   `json:"score"`
		Payload models.PerformancePayload `json:"payload"`
	} `json:"result"`
}

// Search returns the nearest points to the query vector, restricted by the
// filter and a minimum similarity score, best first.
func (c *Client) Search(ctx context.Context, vector []float32, filter models.VectorFilter, limit int, scoreThreshold float64) ([]models.ScoredPerformance, error) {
	req := searchRequest{
		Vector:         vector,
		Limit:          limit,
		ScoreThreshold: scoreThreshold,
		WithPayload:    true,
	}

	var conditions []fieldCondition
	if filter.PlayerID != "" {
		conditions = append(conditions, fieldCondition{Key: "player_id", Match: matchValue{Value: filter.PlayerID}})
	}
	if filter.StatType != "" {
		conditions = append(conditions, fieldCondition{Key: "stat_type", Match: matchValue{Value: filter.StatType}})
	}
	if filter.Season != 0 {
		conditions = append(conditions, fieldCondition{Key: "season", Match: matchValue{Value: filter.Season}})
	}
	if len(conditions) > 0 {
		req.Filter = &searchFilter{Must: conditions}
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/collections/"+c.collection+"/points/search", req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("qdrant search: status %d: %s", status, truncate(raw, 200))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]models.ScoredPerformance, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		hits = append(hits, models.ScoredPerformance{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
