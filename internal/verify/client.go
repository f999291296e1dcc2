package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/toolboard/internal/domain/model"
)

// ErrUnexpectedStatus is returned when the API answers with a non-2xx code.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Report summarises one verification pass.
type Report struct {
	BaseURL    string
	Categories int
	Tools      int
	Movers     int
	Problems   []string
	Duration   time.Duration
}

// OK reports whether no invariant was violated.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithConcurrency bounds the parallel per-category requests.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMoversLimit sets the ?limit used for GET /movers.
func WithMoversLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.moversLimit = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client fetches leaderboard data from a running server.
type Client struct {
	baseURL     string
	http        *http.Client
	concurrency int
	moversLimit int
}

// NewClient creates a Client for baseURL, e.g. "http://localhost:9080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 10 * time.Second},
		concurrency: 4,
		moversLimit: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("GET %s: %w %d: %s", path, ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Run checks /healthz, the full leaderboard, every category route and the
// movers route. Transport failures are returned as errors; invariant
// violations are collected in the report.
func (c *Client) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{BaseURL: c.baseURL}

	var health map[string]string
	if err := c.getJSON(ctx, "/healthz", &health); err != nil {
		return rep, err
	}
	if health["status"] != "ok" {
		rep.Problems = append(rep.Problems, fmt.Sprintf("healthz: status %q", health["status"]))
	}

	var board []model.CategoryScores
	if err := c.getJSON(ctx, "/leaderboard", &board); err != nil {
		return rep, err
	}
	rep.Categories = len(board)
	for _, cat := range board {
		rep.Tools += len(cat.Tools)
	}
	rep.Problems = append(rep.Problems, CheckLeaderboard(board)...)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, want := range board {
		g.Go(func() error {
			var got model.CategoryScores
			if err := c.getJSON(gctx, "/leaderboard/"+url.PathEscape(want.Category), &got); err != nil {
				return err
			}
			if p := compareCategory(want, got); p != "" {
				mu.Lock()
				rep.Problems = append(rep.Problems, p)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	var movers []model.ToolScore
	if err := c.getJSON(ctx, fmt.Sprintf("/movers?limit=%d", c.moversLimit), &movers); err != nil {
		return rep, err
	}
	rep.Movers = len(movers)
	rep.Problems = append(rep.Problems, CheckMovers(movers, c.moversLimit)...)

	rep.Duration = time.Since(start)
	return rep, nil
}

// compareCategory reports a mismatch between the full leaderboard and the
// single-category route, comparing order and totals.
func compareCategory(want, got model.CategoryScores) string {
	if len(want.Tools) != len(got.Tools) {
		return fmt.Sprintf("%s: %d tools on /leaderboard, %d on the category route", want.Category, len(want.Tools), len(got.Tools))
	}
	for i := range want.Tools {
		if want.Tools[i].ID != got.Tools[i].ID || want.Tools[i].TotalScore != got.Tools[i].TotalScore {
			return fmt.Sprintf("%s: position %d differs between routes", want.Category, i+1)
		}
	}
	return ""
}
