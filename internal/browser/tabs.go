package browser

import (
	"context"
	"log/slog"
	"strings"
)

// Resolver maps a URL to a target, opening one if needed.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*Target, bool)
}

// TabResolver reuses an open page whose URL contains the requested URL and
// creates one otherwise. With overlapping URLs the first listed match wins.
type TabResolver struct {
	dir    TargetDirectory
	logger *slog.Logger
}

// NewTabResolver creates a resolver over dir.
func NewTabResolver(dir TargetDirectory, opts ...Option) *TabResolver {
	o := buildOptions("cdp-tabs", opts)
	return &TabResolver{dir: dir, logger: o.logger}
}

// Resolve returns the tab for url.
func (r *TabResolver) Resolve(ctx context.Context, url string) (*Target, bool) {
	if t, ok := findTab(r.dir.ListTargets(ctx), url); ok {
		r.logger.Debug("reusing tab", "id", truncateID(t.ID), "url", t.URL)
		return t, true
	}
	return r.dir.CreateTarget(ctx, url)
}

func findTab(targets []Target, url string) (*Target, bool) {
	for i := range targets {
		t := targets[i]
		if t.Type != "" && t.Type != "page" {
			continue
		}
		if strings.Contains(t.URL, url) {
			return &t, true
		}
	}
	return nil, false
}
