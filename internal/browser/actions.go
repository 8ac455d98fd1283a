package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Browser performs user-level actions on the target tab. Each action resolves
// the tab, then sends its commands one connection at a time. Failures are
// logged with the action name and returned; they never affect later actions.
type Browser struct {
	cfg      Config
	resolver Resolver
	sender   Sender
	fs       afero.Fs
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
	logger   *slog.Logger
}

// NewBrowser creates the action facade.
func NewBrowser(cfg Config, resolver Resolver, sender Sender, opts ...Option) *Browser {
	cfg = cfg.normalize()
	o := buildOptions("browser", opts)
	return &Browser{
		cfg:      cfg,
		resolver: resolver,
		sender:   sender,
		fs:       o.fs,
		now:      o.now,
		sleep:    o.sleep,
		logger:   o.logger,
	}
}

// Navigate loads url in the tab already showing it, or a new tab.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	if url == "" {
		return b.fail("navigate", invalidArgument("empty url"))
	}
	if _, err := b.run(ctx, url, PageNavigate(url)); err != nil {
		return b.fail("navigate", err)
	}
	b.logger.Info("navigated", "url", url)
	return b.settle(ctx)
}

// Reload reloads the target tab.
func (b *Browser) Reload(ctx context.Context) error {
	if _, err := b.run(ctx, b.cfg.TargetURL, PageReload()); err != nil {
		return b.fail("reload", err)
	}
	b.logger.Info("reloaded", "url", b.cfg.TargetURL)
	return b.settle(ctx)
}

// Scroll scrolls the page. pixels <= 0 uses the default for the direction.
func (b *Browser) Scroll(ctx context.Context, direction string, pixels int) error {
	expr, err := scrollExpression(direction, pixels)
	if err != nil {
		return b.fail("scroll", err)
	}
	if _, err := b.run(ctx, b.cfg.TargetURL, RuntimeEnable(), RuntimeEvaluate(expr)); err != nil {
		return b.fail("scroll", err)
	}
	b.logger.Info("scrolled", "direction", direction, "script", expr)
	return nil
}

// Click presses and releases the left mouse button at (x, y).
func (b *Browser) Click(ctx context.Context, x, y float64) error {
	cmds := []Command{InputEnable(), InputMousePressed(x, y), InputMouseReleased(x, y)}
	if _, err := b.run(ctx, b.cfg.TargetURL, cmds...); err != nil {
		return b.fail("click", err)
	}
	b.logger.Info("clicked", "x", x, "y", y)
	return nil
}

// Type inserts text one character at a time.
func (b *Browser) Type(ctx context.Context, text string) error {
	if text == "" {
		return b.fail("type", invalidArgument("empty text"))
	}

	tab, err := b.tab(ctx, b.cfg.TargetURL)
	if err != nil {
		return b.fail("type", err)
	}
	if _, err := b.sender.Send(ctx, tab.ID, InputEnable()); err != nil {
		return b.fail("type", err)
	}

	first := true
	for _, r := range text {
		if !first {
			if err := b.sleep(ctx, b.cfg.TypeDelay); err != nil {
				return b.fail("type", err)
			}
		}
		first = false
		if _, err := b.sender.Send(ctx, tab.ID, InputChar(string(r))); err != nil {
			return b.fail("type", err)
		}
	}
	b.logger.Info("typed", "chars", len([]rune(text)))
	return nil
}

// Key presses a named key. Unknown names are inserted as literal text.
func (b *Browser) Key(ctx context.Context, name string) error {
	if name == "" {
		return b.fail("key", invalidArgument("empty key name"))
	}
	if _, known := namedKeys[name]; !known {
		b.logger.Debug("unknown key name, sending as text", "key", name)
	}
	if _, err := b.run(ctx, b.cfg.TargetURL, keyCommands(name)...); err != nil {
		return b.fail("key", err)
	}
	b.logger.Info("pressed key", "key", name)
	return nil
}

// Evaluate runs expression in the page and returns its value. An undefined
// result is nil; a thrown exception is a *ScriptError.
func (b *Browser) Evaluate(ctx context.Context, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, b.fail("evaluate", invalidArgument("empty expression"))
	}
	v, err := b.evaluate(ctx, expression)
	if err != nil {
		return nil, b.fail("evaluate", err)
	}
	return v, nil
}

func (b *Browser) evaluate(ctx context.Context, expression string) (any, error) {
	res, err := b.run(ctx, b.cfg.TargetURL, RuntimeEnable(), RuntimeEvaluate(expression))
	if err != nil {
		return nil, err
	}
	if details := res.Get("exceptionDetails"); details.Exists() {
		return nil, newScriptError(expression, []byte(details.Raw))
	}
	value := res.Get("result.value")
	if !value.Exists() {
		return nil, nil
	}
	return value.Value(), nil
}

// Screenshot captures the viewport as PNG and writes it to filename, or to a
// timestamped name in the screenshot dir. It returns the written path.
func (b *Browser) Screenshot(ctx context.Context, filename string) (string, error) {
	res, err := b.run(ctx, b.cfg.TargetURL, PageCaptureScreenshot())
	if err != nil {
		return "", b.fail("screenshot", err)
	}

	encoded := res.Get("data")
	if !encoded.Exists() {
		return "", b.fail("screenshot", errors.New("capture returned no image data"))
	}
	data, err := base64.StdEncoding.DecodeString(encoded.String())
	if err != nil {
		return "", b.fail("screenshot", fmt.Errorf("decode screenshot: %w", err))
	}
	if len(data) == 0 {
		return "", b.fail("screenshot", errors.New("capture returned an empty image"))
	}

	path := filename
	if path == "" {
		path = filepath.Join(b.cfg.ScreenshotDir, "screenshot_"+b.now().Format("20060102_150405")+".png")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return "", b.fail("screenshot", fmt.Errorf("create screenshot dir: %w", err))
		}
	}
	if err := afero.WriteFile(b.fs, path, data, 0o644); err != nil {
		return "", b.fail("screenshot", fmt.Errorf("write screenshot: %w", err))
	}
	b.logger.Info("saved screenshot", "path", path, "bytes", len(data))
	return path, nil
}

// ParseCoordinates parses "x,y" as used by click.
func ParseCoordinates(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, invalidArgument("coordinates %q: want x,y", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, invalidArgument("coordinates %q: bad x", s)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, invalidArgument("coordinates %q: bad y", s)
	}
	return x, y, nil
}

// run resolves the tab for url and sends cmds in order, returning the last
// result.
func (b *Browser) run(ctx context.Context, url string, cmds ...Command) (Result, error) {
	tab, err := b.tab(ctx, url)
	if err != nil {
		return nil, err
	}

	var res Result
	for _, cmd := range cmds {
		res, err = b.sender.Send(ctx, tab.ID, cmd)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (b *Browser) tab(ctx context.Context, url string) (*Target, error) {
	tab, ok := b.resolver.Resolve(ctx, url)
	if !ok {
		return nil, unreachable("resolve tab", fmt.Errorf("no tab for %s", url))
	}
	return tab, nil
}

func (b *Browser) settle(ctx context.Context) error {
	if err := b.sleep(ctx, b.cfg.SettleDelay); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	return nil
}

func (b *Browser) fail(action string, err error) error {
	b.logger.Debug(action+" failed", "error", err)
	return fmt.Errorf("%s: %w", action, err)
}
