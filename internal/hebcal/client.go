// Package hebcal is a best-effort client for the Hebcal zmanim and date
// converter APIs. It supplies sunset instants for the day-boundary rule
// and Hebrew date labels for display. Every failure stays inside the
// caller's async wrapper: the dayclock falls back to its fixed default
// when sunset data is missing, so nothing here ever reaches the policy
// engine as an error.
package hebcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// ErrUnavailable indicates the Hebcal server could not be reached or
// answered with garbage. Callers degrade; they do not retry in a loop.
var ErrUnavailable = errors.New("hebcal unavailable")

// Config holds the Hebcal client configuration.
type Config struct {
	BaseURL   string
	TimeoutMs int
}

// DefaultConfig returns the production Hebcal endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://www.hebcal.com",
		TimeoutMs: 8000,
	}
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("RAMBAM_HEBCAL_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("RAMBAM_HEBCAL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}

// Client talks to a Hebcal-compatible server, caching sunset lookups per
// (day, coordinates) so each date costs at most one request.
type Client struct {
	cfg  Config
	http *http.Client

	mu      sync.Mutex
	sunsets map[sunsetKey]time.Time
}

type sunsetKey struct {
	day domain.DayKey
	lat float64
	lng float64
}

// NewClient creates a Client for the configured endpoint.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		sunsets: map[sunsetKey]time.Time{},
	}
}

// zmanimResponse is the body of GET /zmanim?cfg=json&...
type zmanimResponse struct {
	Times struct {
		Sunset string `json:"sunset"`
	} `json:"times"`
}

// converterResponse is the body of GET /converter?cfg=json&g2h=1&...
type converterResponse struct {
	Hebrew string `json:"hebrew"`
	Hd     int    `json:"hd"`
	Hm     string `json:"hm"`
	Hy     int    `json:"hy"`
}

// Sunset returns the local sunset instant for day at the given
// coordinates. Results are cached for the lifetime of the client.
func (c *Client) Sunset(ctx context.Context, day domain.DayKey, lat, lng float64) (time.Time, error) {
	key := sunsetKey{day: day, lat: lat, lng: lng}
	c.mu.Lock()
	if t, ok := c.sunsets[key]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	path := fmt.Sprintf("/zmanim?cfg=json&date=%s&latitude=%s&longitude=%s",
		day,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var resp zmanimResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, resp.Times.Sunset)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad sunset %q", ErrUnavailable, resp.Times.Sunset)
	}

	c.mu.Lock()
	c.sunsets[key] = t
	c.mu.Unlock()
	return t, nil
}

// HebrewDate returns the Hebrew date label for day: Hebrew letters on one
// side, a transliterated form on the other.
func (c *Client) HebrewDate(ctx context.Context, day domain.DayKey) (domain.BiText, error) {
	t := day.Time()
	if t.IsZero() {
		return domain.BiText{}, fmt.Errorf("%w: bad day %q", ErrUnavailable, day)
	}
	path := fmt.Sprintf("/converter?cfg=json&g2h=1&gy=%d&gm=%d&gd=%d",
		t.Year(), int(t.Month()), t.Day())

	var resp converterResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return domain.BiText{}, err
	}
	out := domain.BiText{He: resp.Hebrew}
	if resp.Hd > 0 && resp.Hm != "" {
		out.En = fmt.Sprintf("%d %s %d", resp.Hd, resp.Hm, resp.Hy)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
