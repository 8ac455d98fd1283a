package browser

import (
	"context"
	"fmt"
	"log/slog"
)

// Session wires the coordinator, tab resolver and command channel behind the
// action facade.
type Session struct {
	*Browser

	Coordinator *Coordinator
	Directory   *Directory
	Tabs        *TabResolver
	Channel     *Channel

	cfg    Config
	logger *slog.Logger
}

// NewSession builds a session for cfg. No network traffic happens until an
// action or status query runs.
func NewSession(cfg Config, opts ...Option) *Session {
	cfg = cfg.normalize()
	o := buildOptions("session", opts)

	coordinator := NewCoordinator(cfg, opts...)
	directory := NewDirectory(cfg, opts...)
	tabs := NewTabResolver(directory, opts...)
	channel := NewChannel(cfg, coordinator, opts...)

	return &Session{
		Browser:     NewBrowser(cfg, tabs, channel, opts...),
		Coordinator: coordinator,
		Directory:   directory,
		Tabs:        tabs,
		Channel:     channel,
		cfg:         cfg,
		logger:      o.logger,
	}
}

// Config returns the normalized configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// VerifyReport summarizes the target tab.
type VerifyReport struct {
	Connection *ConnectionInfo `json:"connection"`
	TargetID   string          `json:"target_id"`
	URL        string          `json:"url"`
	ReadyState string          `json:"ready_state"`
	Title      string          `json:"title"`
}

// Verify checks the browser is up, resolves the target tab and reads its
// document state.
func (s *Session) Verify(ctx context.Context) (*VerifyReport, error) {
	info, err := s.Coordinator.Endpoint(ctx)
	if err != nil {
		return nil, s.fail("verify", err)
	}

	tab, err := s.tab(ctx, s.cfg.TargetURL)
	if err != nil {
		return nil, s.fail("verify", err)
	}

	report := &VerifyReport{
		Connection: info,
		TargetID:   tab.ID,
		URL:        tab.URL,
	}

	readyState, err := s.evaluate(ctx, "document.readyState")
	if err != nil {
		return nil, s.fail("verify", err)
	}
	report.ReadyState = fmt.Sprint(readyState)

	title, err := s.evaluate(ctx, "document.title")
	if err != nil {
		return nil, s.fail("verify", err)
	}
	report.Title = fmt.Sprint(title)

	s.logger.Info("verified", "target", truncateID(tab.ID), "ready_state", report.ReadyState, "title", report.Title)
	return report, nil
}
