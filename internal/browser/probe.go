package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// VersionInfo is the body of /json/version.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	V8Version            string `json:"V8-Version"`
	WebKitVersion        string `json:"WebKit-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Prober checks whether a debugging endpoint answers on a port.
type Prober struct {
	host   string
	client *http.Client
	logger *slog.Logger
}

// NewProber creates a prober for cfg.Host bounded by cfg.ProbeTimeout.
func NewProber(cfg Config, opts ...Option) *Prober {
	cfg = cfg.normalize()
	o := buildOptions("cdp-probe", opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{}
	}
	// The probe bound is applied on top of any client supplied by the caller.
	bounded := *client
	bounded.Timeout = cfg.ProbeTimeout
	return &Prober{
		host:   cfg.Host,
		client: &bounded,
		logger: o.logger,
	}
}

// Probe requests /json/version on port. Any failure, including a non-200
// status or a body that is not JSON, reports the browser as absent.
func (p *Prober) Probe(ctx context.Context, port int) (*VersionInfo, bool) {
	versionURL := fmt.Sprintf("http://%s:%d/json/version", p.host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, versionURL, nil)
	if err != nil {
		return nil, false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe failed", "port", port, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("probe rejected", "port", port, "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}

	var info VersionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		p.logger.Debug("probe returned non-JSON body", "port", port, "error", err)
		return nil, false
	}
	return &info, true
}
