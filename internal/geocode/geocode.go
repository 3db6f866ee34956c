// Package geocode resolves postal addresses to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
)

// ErrNoMatch is returned when the provider knows no place for the address.
var ErrNoMatch = errors.New("geocode: no match for address")

type Geocoder interface {
	Geocode(ctx context.Context, loc domain.Location) (*domain.Coordinates, error)
}

// Config mirrors the geocode section of the service configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	MaxAttempts int
	BaseDelay   time.Duration
}

// httpGeocoder talks to a Nominatim compatible /search endpoint.
type httpGeocoder struct {
	cfg    Config
	client *http.Client
	sleep  func(context.Context, time.Duration) error
}

// New returns an HTTP geocoder, or a no-op one when no base URL is set.
func New(cfg Config, client *http.Client) Geocoder {
	if cfg.BaseURL == "" {
		return Noop{}
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &httpGeocoder{cfg: cfg, client: client, sleep: sleepContext}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// permanentError stops the retry loop.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func (g *httpGeocoder) Geocode(ctx context.Context, loc domain.Location) (*domain.Coordinates, error) {
	address := formatAddress(loc)
	logger.ExternalServiceCall("geocode", "search", "address", address)

	var coords *domain.Coordinates
	err := g.retry(ctx, func() error {
		c, err := g.search(ctx, address)
		if err != nil {
			return err
		}
		coords = c
		return nil
	})
	logger.ExternalServiceResult("geocode", "search", err)
	if err != nil {
		return nil, err
	}
	return coords, nil
}

// retry runs fn with exponential back-off until it succeeds, fails
// permanently or the attempts run out.
func (g *httpGeocoder) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := g.cfg.BaseDelay

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var perm permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt < g.cfg.MaxAttempts {
			logger.Warn("geocode attempt failed", "attempt", attempt, "max_attempts", g.cfg.MaxAttempts,
				"error", lastErr, "retry_in", delay)
			if err := g.sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
	}
	return fmt.Errorf("geocode failed after %d attempts: %w", g.cfg.MaxAttempts, lastErr)
}

func (g *httpGeocoder) search(ctx context.Context, address string) (*domain.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.cfg.APIKey != "" {
		params.Set("key", g.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(g.cfg.BaseURL, "/")+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, permanentError{err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("geocode: provider returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, permanentError{fmt.Errorf("geocode: provider returned %d", resp.StatusCode)}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, permanentError{fmt.Errorf("geocode: decode response: %w", err)}
	}
	if len(places) == 0 {
		return nil, permanentError{ErrNoMatch}
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, permanentError{fmt.Errorf("geocode: malformed coordinates %q,%q", places[0].Lat, places[0].Lon)}
	}
	return &domain.Coordinates{Longitude: lon, Latitude: lat}, nil
}

func formatAddress(loc domain.Location) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{loc.Address, loc.City, loc.State, loc.PostalCode, loc.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Noop leaves every address without coordinates.
type Noop struct{}

func (Noop) Geocode(context.Context, domain.Location) (*domain.Coordinates, error) {
	return nil, nil
}
