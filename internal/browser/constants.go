// Package browser drives a locally running Chromium-based browser through the
// Chrome DevTools Protocol. It finds the debugging endpoint, resolves tabs and
// sends one correlated command per websocket connection.
package browser

import "time"

const (
	// DefaultCDPPort is the well-known remote debugging port the browser is expected on.
	DefaultCDPPort = 9222

	// DefaultHost is the host the debugging endpoint is reached on.
	DefaultHost = "localhost"

	// DefaultTargetURL is the page most verbs operate on (the local dev server).
	DefaultTargetURL = "http://localhost:5173"

	// SnapshotFileName is the persisted connection snapshot inside the state dir.
	SnapshotFileName = "cdp-browser.json"

	// ReadySignalFileName is written by the startup hook for other tooling to pick up.
	ReadySignalFileName = "browser-ready.signal"
)

// Timeouts and delays
const (
	DefaultProbeTimeout   = 2 * time.Second
	DefaultHTTPTimeout    = 5 * time.Second
	DefaultCommandTimeout = 10 * time.Second
	DefaultSettleDelay    = 2 * time.Second
	DefaultTypeDelay      = 10 * time.Millisecond

	// maxProbeTimeout bounds Probe regardless of configuration.
	maxProbeTimeout = 2 * time.Second
)

// commandID is the request id of every command. Only one command is ever in
// flight on a connection, so the id never needs to change.
const commandID int64 = 1

// Default scroll distances in pixels.
const (
	defaultVerticalScroll   = 500
	defaultHorizontalScroll = 300
)
