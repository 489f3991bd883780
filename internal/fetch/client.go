// Package fetch downloads the live per-region snapshot from the source API.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"coviddash/internal/engine"
	"coviddash/internal/models"
)

var (
	// ErrNetworkFailure reports a request that could not complete or got a
	// non-2xx answer.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedInput is engine.ErrMalformedInput, so either package can
	// be used with errors.Is.
	ErrMalformedInput = engine.ErrMalformedInput
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Options configures a Client.
type Options struct {
	URL        string
	Timeout    time.Duration // 0 means no timeout
	Attempts   int
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// Client fetches the snapshot with a single GET.
type Client struct {
	url        string
	httpClient *http.Client
	retry      Retry
	logger     *slog.Logger
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:        opts.URL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		retry:      Retry{MaxAttempts: opts.Attempts, BaseDelay: opts.RetryDelay, Logger: logger},
		logger:     logger,
	}
}

// Fetch downloads and decodes the snapshot. Only network failures are
// retried; a malformed body fails at once.
func (c *Client) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	var body []byte
	err := c.retry.Do(ctx, "fetch "+c.url, func() error {
		var err error
		body, err = c.get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	records, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.url, err)
	}

	c.logger.Debug("fetched snapshot", "url", c.url, "bytes", len(body), "records", len(records))
	return records, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrNetworkFailure, c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetworkFailure, err)
	}
	return body, nil
}

// Decode parses the source document: a JSON array of objects carrying at
// least Province, Date and Deaths. A missing field is malformed; a null
// Province marks a row without a region.
func Decode(body []byte) ([]models.RawRecord, error) {
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	records := make([]models.RawRecord, 0, len(rows))
	for i, row := range rows {
		var rec models.RawRecord

		province, ok := row["Province"]
		if !ok {
			return nil, fmt.Errorf("%w: row %d: missing Province", ErrMalformedInput, i)
		}
		if isNull(province) {
			rec.NullRegion = true
		} else if err := json.Unmarshal(province, &rec.Region); err != nil {
			return nil, fmt.Errorf("%w: row %d: Province: %v", ErrMalformedInput, i, err)
		}

		var date string
		if err := decodeField(row, "Date", &date); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, i, err)
		}
		if err := decodeField(row, "Deaths", &rec.Deaths); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, i, err)
		}

		t, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, i, err)
		}
		rec.Date = t

		records = append(records, rec)
	}
	return records, nil
}

// decodeField requires key to be present and non-null.
func decodeField(row map[string]json.RawMessage, key string, v any) error {
	raw, ok := row[key]
	if !ok || isNull(raw) {
		return fmt.Errorf("missing %s", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
