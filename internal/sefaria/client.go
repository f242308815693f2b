// Package sefaria is a thin client for the Sefaria calendar and text APIs:
// the external schedule/text provider behind the schedule cache. It maps
// transport failures onto a small sentinel-error taxonomy so callers can
// tell "offline" from everything else, and it treats partial-language
// responses as data, never as errors.
package sefaria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// calendarTitles maps each study path to the English title of its item in
// the calendar feed.
var calendarTitles = map[domain.StudyPath]string{
	domain.PathRambam3: "Daily Rambam (3 Chapters)",
	domain.PathRambam1: "Daily Rambam",
	domain.PathMitzvot: "Sefer Hamitzvot",
}

// Client talks to a Sefaria-compatible server.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the configured endpoint.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// biText is the {en, he} pair the API uses throughout.
type biText struct {
	En string `json:"en"`
	He string `json:"he"`
}

func (b biText) domain() domain.BiText {
	return domain.BiText{He: b.He, En: b.En}
}

// calendarResponse is the body of GET /api/calendars?date=...
type calendarResponse struct {
	Date          string `json:"date"`
	CalendarItems []struct {
		Title        biText `json:"title"`
		DisplayValue biText `json:"displayValue"`
		URL          string `json:"url"`
		Ref          string `json:"ref"`
		ExtraDetails struct {
			Refs []string `json:"refs"`
		} `json:"extraDetails"`
	} `json:"calendar_items"`
}

// shapeResponse is one element of the GET /api/shape/{ref} body. For a
// chapter-level ref Length is the segment count; book-level shapes carry
// per-chapter counts instead.
type shapeResponse struct {
	Length   int   `json:"length"`
	Chapters []int `json:"chapters"`
}

// textResponse is the body of GET /api/texts/{ref}.
type textResponse struct {
	Ref      string          `json:"ref"`
	HeRef    string          `json:"heRef"`
	Text     json.RawMessage `json:"text"`
	He       json.RawMessage `json:"he"`
	Sections []int           `json:"sections"`
}

// Day fetches the schedule metadata for one (path, day): the calendar
// entry plus a shape lookup per ref to compute the declared item count.
func (c *Client) Day(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	title, ok := calendarTitles[path]
	if !ok {
		return nil, fmt.Errorf("%w: unknown study path %q", ErrNotFound, path)
	}

	var cal calendarResponse
	if err := c.getJSON(ctx, "/api/calendars?date="+string(day), &cal); err != nil {
		return nil, fmt.Errorf("fetching calendar for %s: %w", day, err)
	}

	for _, item := range cal.CalendarItems {
		if item.Title.En != title {
			continue
		}
		refs := item.ExtraDetails.Refs
		if len(refs) == 0 && item.Ref != "" {
			refs = []string{item.Ref}
		}
		if len(refs) == 0 {
			return nil, fmt.Errorf("calendar item for %s on %s: %w", path, day, ErrNotFound)
		}

		sd := &domain.ScheduleDay{
			Path:      path,
			Day:       day,
			Display:   item.DisplayValue.domain(),
			FetchedAt: time.Now(),
		}
		for _, ref := range refs {
			n, err := c.refLength(ctx, ref)
			if err != nil {
				return nil, fmt.Errorf("fetching shape of %q: %w", ref, err)
			}
			sd.Refs = append(sd.Refs, domain.SourceRef{
				Ref:   ref,
				Title: domain.BiText{En: ref},
				URL:   c.cfg.BaseURL + "/" + refToURLPath(ref),
			})
			sd.ItemCount += n
		}
		return sd, nil
	}

	return nil, fmt.Errorf("no %s entry in calendar for %s: %w", path, day, ErrNotFound)
}

// Items fetches the text segments of one ref. Each segment becomes one
// study item tagged with refIndex so the renderer can group by source.
// A missing language side yields an empty BiText side, not an error.
func (c *Client) Items(ctx context.Context, ref string, refIndex int) ([]domain.StudyItem, error) {
	var resp textResponse
	path := "/api/texts/" + url.PathEscape(ref) + "?context=0&commentary=0"
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching text of %q: %w", ref, err)
	}

	en := decodeSegments(resp.Text)
	he := decodeSegments(resp.He)
	n := len(en)
	if len(he) > n {
		n = len(he)
	}
	if n == 0 {
		return nil, fmt.Errorf("text of %q is empty: %w", ref, ErrNotFound)
	}

	chapter := refIndex + 1
	if len(resp.Sections) > 0 {
		chapter = resp.Sections[0]
	}

	items := make([]domain.StudyItem, 0, n)
	for i := 0; i < n; i++ {
		item := domain.StudyItem{
			Chapter:        chapter,
			FirstInChapter: i == 0,
			RefIndex:       refIndex,
		}
		if i < len(en) {
			item.Text.En = en[i]
		}
		if i < len(he) {
			item.Text.He = he[i]
		}
		items = append(items, item)
	}
	return items, nil
}

// refLength returns the declared segment count of one ref.
func (c *Client) refLength(ctx context.Context, ref string) (int, error) {
	var shapes []shapeResponse
	if err := c.getJSON(ctx, "/api/shape/"+url.PathEscape(ref), &shapes); err != nil {
		return 0, err
	}
	total := 0
	for _, s := range shapes {
		if len(s.Chapters) > 0 {
			for _, n := range s.Chapters {
				total += n
			}
			continue
		}
		total += s.Length
	}
	if total <= 0 {
		return 0, fmt.Errorf("shape of %q has no segments: %w", ref, ErrNotFound)
	}
	return total, nil
}

// getJSON performs a GET with retries and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	start := time.Now()
	endpoint := path
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		err := c.doRequest(ctx, path, out)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Endpoint:  endpoint,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout, and never retry a
		// definitive "no data" answer.
		if ctx.Err() != nil || errors.Is(err, ErrNotFound) {
			break
		}
	}

	mapped := mapError(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Endpoint:  endpoint,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(mapped),
	})
	return mapped
}

func (c *Client) doRequest(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sefaria returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeSegments accepts either a flat segment array or a per-chapter
// nested array and returns the flattened segments. Anything else (an
// absent language side is often the empty string) decodes to nil.
func decodeSegments(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}
	var nested [][]string
	if err := json.Unmarshal(raw, &nested); err == nil {
		var out []string
		for _, ch := range nested {
			out = append(out, ch...)
		}
		return out
	}
	return nil
}

// refToURLPath renders a ref the way the reader site addresses it.
func refToURLPath(ref string) string {
	r := strings.ReplaceAll(ref, " ", "_")
	r = strings.ReplaceAll(r, ":", ".")
	return url.PathEscape(r)
}

func mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}
	return err
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOffline):
		return "OFFLINE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}
