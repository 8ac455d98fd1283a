package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Target is a debuggable browser target as listed by /json/list.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	DevtoolsFrontendURL  string `json:"devtoolsFrontendUrl"`
}

// TargetDirectory lists and creates targets.
type TargetDirectory interface {
	ListTargets(ctx context.Context) []Target
	CreateTarget(ctx context.Context, rawURL string) (*Target, bool)
}

// Directory talks to the debugging HTTP endpoint.
type Directory struct {
	host   string
	port   int
	client *http.Client
	logger *slog.Logger
}

// NewDirectory creates a directory client for cfg.Host:cfg.CDPPort.
func NewDirectory(cfg Config, opts ...Option) *Directory {
	cfg = cfg.normalize()
	o := buildOptions("cdp-targets", opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Directory{
		host:   cfg.Host,
		port:   cfg.CDPPort,
		client: client,
		logger: o.logger,
	}
}

// ListTargets returns every target the browser reports. Failures are logged
// and yield an empty list.
func (d *Directory) ListTargets(ctx context.Context) []Target {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint("/json/list", ""), nil)
	if err != nil {
		d.logger.Warn("list targets failed", "error", err)
		return []Target{}
	}

	var targets []Target
	if err := d.do(req, &targets); err != nil {
		d.logger.Warn("list targets failed", "error", err)
		return []Target{}
	}
	if targets == nil {
		targets = []Target{}
	}
	return targets
}

// CreateTarget opens a new tab at rawURL.
func (d *Directory) CreateTarget(ctx context.Context, rawURL string) (*Target, bool) {
	// The target URL is passed verbatim as the query; only '#' would be lost.
	query := strings.ReplaceAll(rawURL, "#", "%23")
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, d.endpoint("/json/new", query), nil)
	if err != nil {
		d.logger.Warn("create target failed", "url", rawURL, "error", err)
		return nil, false
	}

	var target Target
	if err := d.do(req, &target); err != nil {
		d.logger.Warn("create target failed", "url", rawURL, "error", err)
		return nil, false
	}
	d.logger.Info("created target", "id", truncateID(target.ID), "url", rawURL)
	return &target, true
}

func (d *Directory) endpoint(path, rawQuery string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     fmt.Sprintf("%s:%d", d.host, d.port),
		Path:     path,
		RawQuery: rawQuery,
	}
	return u.String()
}

func (d *Directory) do(req *http.Request, out any) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return unreachable(req.Method+" "+req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
