package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

// EndpointSource supplies the active debugging endpoint.
type EndpointSource interface {
	Endpoint(ctx context.Context) (*ConnectionInfo, error)
}

// Sender sends one command to a target and returns its result.
type Sender interface {
	Send(ctx context.Context, targetID string, cmd Command) (Result, error)
}

// Channel opens a fresh websocket per command, writes the request, reads a
// single reply and closes the socket.
type Channel struct {
	source  EndpointSource
	host    string
	timeout time.Duration
	dialer  *websocket.Dialer
	audit   *commandAudit
	logger  *slog.Logger
}

// NewChannel creates a command channel resolving ports through source.
func NewChannel(cfg Config, source EndpointSource, opts ...Option) *Channel {
	cfg = cfg.normalize()
	o := buildOptions("cdp-channel", opts)
	dialer := o.dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: cfg.CommandTimeout}
	}
	return &Channel{
		source:  source,
		host:    cfg.Host,
		timeout: cfg.CommandTimeout,
		dialer:  dialer,
		audit:   newCommandAudit(o.logger),
		logger:  o.logger,
	}
}

// Send delivers cmd to targetID. The request id is always 1.
func (c *Channel) Send(ctx context.Context, targetID string, cmd Command) (Result, error) {
	info, err := c.source.Endpoint(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wsURL := fmt.Sprintf("ws://%s:%d/devtools/page/%s", c.host, info.CDPPort, targetID)
	conn, resp, err := c.dialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, unreachable("dial "+wsURL, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, unreachable("set write deadline", err)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, unreachable("set read deadline", err)
	}

	cmd.ID = commandID
	if cmd.Params == nil {
		cmd.Params = emptyParams{}
	}
	c.audit.logCommand(targetID, cmd.Method)

	if err := conn.WriteJSON(cmd); err != nil {
		return nil, unreachable("write "+cmd.Method, err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, unreachable("read "+cmd.Method, err)
	}
	return c.decode(cmd.Method, msg)
}

func (c *Channel) decode(method string, msg []byte) (Result, error) {
	if !gjson.ValidBytes(msg) {
		return nil, fmt.Errorf("%s: malformed response", method)
	}
	if id := gjson.GetBytes(msg, "id"); id.Exists() && id.Int() != commandID {
		c.logger.Warn("response id mismatch", "method", method, "id", id.Int())
	}
	if e := gjson.GetBytes(msg, "error"); e.Exists() {
		return nil, newProtocolError(method, []byte(e.Raw))
	}
	result := gjson.GetBytes(msg, "result")
	if !result.Exists() {
		return Result("{}"), nil
	}
	return Result(result.Raw), nil
}
