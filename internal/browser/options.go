package browser

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
)

// Option configures the components of this package.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	dialer     *websocket.Dialer
	fs         afero.Fs
	out        io.Writer
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error
}

// WithLogger sets the structured logger. The component attribute is added on top.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient replaces the client used for the debugging HTTP endpoint.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithDialer replaces the websocket dialer used by the command channel.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithFs sets the filesystem used for the snapshot, ready signal and screenshots.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithOutput sets where user-facing guidance is printed.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSleep overrides how settle and typing delays are waited.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("component", component)
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.out == nil {
		o.out = os.Stderr
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.sleep == nil {
		o.sleep = sleepContext
	}
	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
