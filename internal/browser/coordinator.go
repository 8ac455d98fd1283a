package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/neboloop/cdpctl/internal/defaults"
)

// Session modes written to the ready signal.
const (
	sessionModePermanent = "shared-session-permanent"
	sessionModeShared    = "shared"
)

// Coordinator answers whether the browser is reachable and publishes what it
// found. Every query probes afresh; nothing is cached between calls.
type Coordinator struct {
	cfg    Config
	prober *Prober
	store  *SnapshotStore
	fs     afero.Fs
	out    io.Writer
	now    func() time.Time
	logger *slog.Logger
}

// NewCoordinator creates a coordinator for cfg.
func NewCoordinator(cfg Config, opts ...Option) *Coordinator {
	cfg = cfg.normalize()
	o := buildOptions("cdp-session", opts)
	return &Coordinator{
		cfg:    cfg,
		prober: NewProber(cfg, opts...),
		store:  NewSnapshotStore(o.fs, cfg.SnapshotPath()),
		fs:     o.fs,
		out:    o.out,
		now:    o.now,
		logger: o.logger,
	}
}

// Status probes the configured port. When the browser answers, the snapshot
// is replaced and the fresh info returned. Otherwise nothing is written.
func (c *Coordinator) Status(ctx context.Context) (bool, *ConnectionInfo) {
	version, ok := c.prober.Probe(ctx, c.cfg.CDPPort)
	if !ok {
		return false, nil
	}

	wsEndpoint := version.WebSocketDebuggerURL
	if wsEndpoint == "" {
		wsEndpoint = fmt.Sprintf("ws://%s:%d/devtools/browser", c.cfg.Host, c.cfg.CDPPort)
	}

	info := &ConnectionInfo{
		CDPPort:     c.cfg.CDPPort,
		WSEndpoint:  wsEndpoint,
		Status:      StatusRunning,
		LastChecked: c.now(),
	}

	if err := c.store.Save(info); err != nil {
		c.logger.Warn("failed to save snapshot", "path", c.store.Path(), "error", err)
	}
	return true, info
}

// Ensure reports the running browser or prints how to start one. It never
// launches a process.
func (c *Coordinator) Ensure(ctx context.Context) *ConnectionInfo {
	if running, info := c.Status(ctx); running {
		c.logger.Info("browser available", "port", info.CDPPort, "ws", info.WSEndpoint)
		return info
	}

	c.logger.Warn("browser not running", "port", c.cfg.CDPPort)
	fmt.Fprint(c.out, LaunchGuidance(c.fs, c.cfg))
	return nil
}

// Endpoint is Status for callers that need an error.
func (c *Coordinator) Endpoint(ctx context.Context) (*ConnectionInfo, error) {
	running, info := c.Status(ctx)
	if !running {
		return nil, unreachable("probe", fmt.Errorf("no debugging endpoint on %s:%d", c.cfg.Host, c.cfg.CDPPort))
	}
	return info, nil
}

// LastSnapshot returns what the last successful status wrote. It is for
// diagnostics and says nothing about the browser now.
func (c *Coordinator) LastSnapshot() (*ConnectionInfo, error) {
	return c.store.Load()
}

// SnapshotPath is where Status writes.
func (c *Coordinator) SnapshotPath() string {
	return c.store.Path()
}

// MarkReady makes sure the browser is available and writes the ready signal
// consumed by session tooling.
func (c *Coordinator) MarkReady(ctx context.Context) error {
	if c.Ensure(ctx) == nil {
		return unreachable("mark ready", errors.New("browser not running"))
	}

	target := c.cfg.TargetURL
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		target = u.Host
	}

	lines := []string{
		target,
		c.now().Format("2006-01-02T15:04:05.000000"),
		sessionModePermanent,
		sessionModeShared,
	}

	path := c.cfg.ReadySignalPath()
	if err := defaults.EnsureStateDir(c.fs, filepath.Dir(path)); err != nil {
		return err
	}
	if err := afero.WriteFile(c.fs, path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write ready signal: %w", err)
	}
	c.logger.Info("session ready", "signal", path, "target", target)
	return nil
}
