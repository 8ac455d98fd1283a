package browser

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"

	"github.com/neboloop/cdpctl/internal/cdptest"
)

const testTargetURL = "http://localhost:5173"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testConfig points at srv with delays disabled.
func testConfig(t *testing.T, port int) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.CDPPort = port
	cfg.TargetURL = testTargetURL
	cfg.StateDir = "/state"
	cfg.ScreenshotDir = "/shots"
	cfg.SettleDelay = 0
	cfg.TypeDelay = 0
	return cfg
}

func testOptions(fs afero.Fs) []Option {
	return []Option{WithLogger(discardLogger()), WithFs(fs)}
}

// newFakeSession starts a fake endpoint with one open tab on the target URL.
func newFakeSession(t *testing.T) (*Session, *cdptest.Server, afero.Fs) {
	t.Helper()
	srv := cdptest.New()
	t.Cleanup(srv.Close)
	srv.AddTarget(testTargetURL + "/")

	fs := afero.NewMemMapFs()
	s := NewSession(testConfig(t, srv.Port()), testOptions(fs)...)
	return s, srv, fs
}

// staticEndpoint reports a fixed port without probing.
type staticEndpoint struct {
	info *ConnectionInfo
	err  error
}

func (s staticEndpoint) Endpoint(context.Context) (*ConnectionInfo, error) {
	return s.info, s.err
}

// recordingSender captures commands instead of sending them.
type recordingSender struct {
	targets  []string
	commands []Command
	replies  map[string]Result
	errs     map[string]error
}

func (r *recordingSender) Send(_ context.Context, targetID string, cmd Command) (Result, error) {
	r.targets = append(r.targets, targetID)
	r.commands = append(r.commands, cmd)
	if err := r.errs[cmd.Method]; err != nil {
		return nil, err
	}
	if res, ok := r.replies[cmd.Method]; ok {
		return res, nil
	}
	return Result("{}"), nil
}

func (r *recordingSender) methods() []string {
	methods := make([]string, len(r.commands))
	for i, c := range r.commands {
		methods[i] = c.Method
	}
	return methods
}

// fixedResolver always resolves to the same target and records lookups.
type fixedResolver struct {
	target *Target
	urls   []string
}

func (f *fixedResolver) Resolve(_ context.Context, url string) (*Target, bool) {
	f.urls = append(f.urls, url)
	if f.target == nil {
		return nil, false
	}
	return f.target, true
}

// countingTransport counts requests made through a caller-supplied client.
type countingTransport struct {
	base     *http.Transport
	requests atomic.Int32
}

func newCountingClient(t *testing.T) (*http.Client, *countingTransport) {
	t.Helper()
	rt := &countingTransport{base: &http.Transport{}}
	t.Cleanup(rt.base.CloseIdleConnections)
	return &http.Client{Transport: rt}, rt
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)
	return c.base.RoundTrip(req)
}
