package venue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// Lookup resolves a venue id to its details and source reviews. Implemented
// by the discovery-service client; wrapped by CachedLookup.
type Lookup interface {
	GetVenue(ctx context.Context, id string) (*models.Venue, error)
}

// Client talks to the external venue-discovery service.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 12 * time.Second},
		BaseURL:    baseURL,
	}
}

func (c *Client) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	const op = "venue.get"

	if id == "" {
		return nil, retry.Validation(op, errors.New("venue id required"))
	}

	url := fmt.Sprintf("%s/venues/%s", c.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, retry.Transient(op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.NotFound(op, fmt.Errorf("venue %s unknown", id))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, retry.Transient(op, fmt.Errorf("discovery: status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("discovery: status %d: %s", resp.StatusCode, string(body))
	}

	var v models.Venue
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("discovery: decode: %w", err)
	}
	if v.ID == "" {
		v.ID = id
	}
	if v.ReviewCount == 0 {
		v.ReviewCount = len(v.Reviews)
	}
	return &v, nil
}
