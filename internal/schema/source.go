package schema

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
	"sync/atomic"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// TableSource serves field lists from an in-memory table. The table can be
// replaced at any time; readers see either the old or the new table.
type TableSource struct {
	table atomic.Pointer[Table]
}

// NewTableSource creates a source over t.
func NewTableSource(t *Table) *TableSource {
	s := &TableSource{}
	s.table.Store(t)
	return s
}

// Table returns the table currently in effect.
func (s *TableSource) Table() *Table { return s.table.Load() }

// Replace swaps in t atomically.
func (s *TableSource) Replace(t *Table) { s.table.Store(t) }

func (s *TableSource) FetchFields(_ context.Context, code string) ([]domain.FieldDescriptor, error) {
	c, ok := s.table.Load().Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, ErrNoOfflineSchema)
	}
	return c.Fields, nil
}

// HTTPConfig configures the remote schema service client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPSource fetches field lists from GET {base}/codes/{code}/fields.
type HTTPSource struct {
	cfg  HTTPConfig
	http *http.Client
}

// NewHTTPSource creates a remote source.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPSource{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 2 * time.Second,
				}).DialContext,
			},
		},
	}
}

// fieldsResponse is the JSON body returned by the schema service.
type fieldsResponse struct {
	Code   string                   `json:"code"`
	Fields []domain.FieldDescriptor `json:"fields"`
}

func (s *HTTPSource) FetchFields(ctx context.Context, code string) ([]domain.FieldDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	u := s.cfg.BaseURL + "/codes/" + url.PathEscape(code) + "/fields"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", code, ErrUnknownCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out fieldsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if err := validateFields(out.Fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, code, err)
	}
	return out.Fields, nil
}

// FetchSource is what FallbackSource composes.
type FetchSource interface {
	FetchFields(ctx context.Context, code string) ([]domain.FieldDescriptor, error)
}

// FallbackSource asks the remote source first and falls back to the offline
// table when the remote is unreachable. A code the remote does not know is not
// retried offline.
type FallbackSource struct {
	remote  FetchSource
	offline FetchSource
}

// NewFallbackSource composes remote and offline. A nil remote means offline only.
func NewFallbackSource(remote, offline FetchSource) *FallbackSource {
	return &FallbackSource{remote: remote, offline: offline}
}

func (s *FallbackSource) FetchFields(ctx context.Context, code string) ([]domain.FieldDescriptor, error) {
	if s.remote != nil {
		fields, err := s.remote.FetchFields(ctx, code)
		if err == nil {
			return fields, nil
		}
		if errors.Is(err, ErrUnknownCode) || errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	return s.offline.FetchFields(ctx, code)
}
