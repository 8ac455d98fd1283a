package browser

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/neboloop/cdpctl/internal/cdptest"
)

func newRecordingBrowser(t *testing.T, opts ...Option) (*Browser, *recordingSender, *fixedResolver) {
	t.Helper()
	sender := &recordingSender{replies: map[string]Result{}, errs: map[string]error{}}
	resolver := &fixedResolver{target: &Target{ID: "tab-1", Type: "page", URL: testTargetURL}}
	opts = append([]Option{WithLogger(discardLogger()), WithFs(afero.NewMemMapFs())}, opts...)
	b := NewBrowser(testConfig(t, DefaultCDPPort), resolver, sender, opts...)
	return b, sender, resolver
}

func TestTypeSendsOneCharPerRune(t *testing.T) {
	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	b, sender, _ := newRecordingBrowser(t, WithSleep(sleep))
	b.cfg.TypeDelay = 10 * time.Millisecond

	require.NoError(t, b.Type(context.Background(), "hi"))

	assert.Equal(t, []string{"Input.enable", "Input.dispatchKeyEvent", "Input.dispatchKeyEvent"}, sender.methods())
	assert.Equal(t, "h", gjson.Get(encode(t, sender.commands[1]), "params.text").String())
	assert.Equal(t, "i", gjson.Get(encode(t, sender.commands[2]), "params.text").String())
	assert.Equal(t, "char", gjson.Get(encode(t, sender.commands[2]), "params.type").String())
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, delays, "delay between characters only")
	assert.Equal(t, []string{"tab-1", "tab-1", "tab-1"}, sender.targets)
}

func TestClickSequence(t *testing.T) {
	b, sender, _ := newRecordingBrowser(t)

	require.NoError(t, b.Click(context.Background(), 10, 20))

	require.Equal(t, []string{"Input.enable", "Input.dispatchMouseEvent", "Input.dispatchMouseEvent"}, sender.methods())
	pressed := encode(t, sender.commands[1])
	released := encode(t, sender.commands[2])
	assert.Equal(t, "mousePressed", gjson.Get(pressed, "params.type").String())
	assert.Equal(t, "mouseReleased", gjson.Get(released, "params.type").String())
	for _, msg := range []string{pressed, released} {
		assert.Equal(t, 10.0, gjson.Get(msg, "params.x").Float())
		assert.Equal(t, 20.0, gjson.Get(msg, "params.y").Float())
		assert.Equal(t, "left", gjson.Get(msg, "params.button").String())
		assert.Equal(t, int64(1), gjson.Get(msg, "params.clickCount").Int())
	}
}

func TestScrollInvalidDirectionSendsNothing(t *testing.T) {
	b, sender, resolver := newRecordingBrowser(t)

	for _, direction := range []string{"diagonal", "DOWN", "Up"} {
		err := b.Scroll(context.Background(), direction, 100)
		require.ErrorIs(t, err, ErrInvalidArgument, direction)
	}
	assert.Empty(t, sender.commands)
	assert.Empty(t, resolver.urls)
}

func TestScrollEvaluatesScript(t *testing.T) {
	b, sender, _ := newRecordingBrowser(t)

	require.NoError(t, b.Scroll(context.Background(), "up", 0))
	require.Equal(t, []string{"Runtime.enable", "Runtime.evaluate"}, sender.methods())
	assert.Equal(t, "window.scrollBy(0, -500)", gjson.Get(encode(t, sender.commands[1]), "params.expression").String())
}

func TestNavigateResolvesByItsOwnURL(t *testing.T) {
	var slept time.Duration
	b, sender, resolver := newRecordingBrowser(t, WithSleep(func(_ context.Context, d time.Duration) error {
		slept += d
		return nil
	}))
	b.cfg.SettleDelay = 2 * time.Second

	require.NoError(t, b.Navigate(context.Background(), "http://localhost:5173/about"))
	assert.Equal(t, []string{"http://localhost:5173/about"}, resolver.urls)
	assert.Equal(t, []string{"Page.navigate"}, sender.methods())
	assert.Equal(t, 2*time.Second, slept)

	require.NoError(t, b.Reload(context.Background()))
	assert.Equal(t, testTargetURL, resolver.urls[1])
	assert.Equal(t, 4*time.Second, slept)
}

func TestKeyVerb(t *testing.T) {
	b, sender, _ := newRecordingBrowser(t)

	require.NoError(t, b.Key(context.Background(), "Tab"))
	assert.Equal(t, []string{"Input.enable", "Input.dispatchKeyEvent", "Input.dispatchKeyEvent"}, sender.methods())
	down := encode(t, sender.commands[1])
	up := encode(t, sender.commands[2])
	assert.Equal(t, "keyDown", gjson.Get(down, "params.type").String())
	assert.Equal(t, "Tab", gjson.Get(down, "params.key").String())
	assert.Equal(t, int64(9), gjson.Get(down, "params.windowsVirtualKeyCode").Int())
	assert.Equal(t, "keyUp", gjson.Get(up, "params.type").String())

	require.ErrorIs(t, b.Key(context.Background(), ""), ErrInvalidArgument)
}

func TestEvaluateValues(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  any
	}{
		{"string", `{"result":{"type":"string","value":"Home"}}`, "Home"},
		{"number", `{"result":{"type":"number","value":42}}`, 42.0},
		{"object", `{"result":{"type":"object","value":{"a":true}}}`, map[string]any{"a": true}},
		{"undefined", `{"result":{"type":"undefined"}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sender, _ := newRecordingBrowser(t)
			sender.replies["Runtime.evaluate"] = Result(tt.reply)

			got, err := b.Evaluate(context.Background(), "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"Runtime.enable", "Runtime.evaluate"}, sender.methods())
		})
	}
}

func TestEvaluateScriptError(t *testing.T) {
	b, sender, _ := newRecordingBrowser(t)
	sender.replies["Runtime.evaluate"] = Result(`{
		"result": {"type": "object", "subtype": "error"},
		"exceptionDetails": {
			"exceptionId": 1,
			"text": "Uncaught",
			"lineNumber": 0,
			"columnNumber": 6,
			"exception": {"type": "object", "description": "ReferenceError: nope is not defined"}
		}
	}`)

	_, err := b.Evaluate(context.Background(), "nope()")
	var serr *ScriptError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Uncaught", serr.Text)
	assert.Equal(t, int64(6), serr.ColumnNumber)
	assert.Equal(t, "nope()", serr.Expression)
	assert.Contains(t, err.Error(), "ReferenceError")
	assert.False(t, errors.Is(err, ErrUnreachable))
}

func TestVerbFailuresAreClassified(t *testing.T) {
	b, sender, resolver := newRecordingBrowser(t)

	resolver.target = nil
	require.ErrorIs(t, b.Reload(context.Background()), ErrUnreachable)
	assert.Empty(t, sender.commands)

	resolver.target = &Target{ID: "tab-1"}
	sender.errs["Page.navigate"] = &ProtocolError{Method: "Page.navigate", Code: -32000, Message: "boom"}
	err := b.Navigate(context.Background(), "about:blank")
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))

	// A failed verb leaves the facade usable.
	require.NoError(t, b.Click(context.Background(), 1, 1))

	require.ErrorIs(t, b.Type(context.Background(), ""), ErrInvalidArgument)
	_, err = b.Evaluate(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestScreenshotWritesPNG(t *testing.T) {
	srv := cdptest.New()
	defer srv.Close()
	srv.AddTarget(testTargetURL)

	fs := afero.NewMemMapFs()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s := NewSession(testConfig(t, srv.Port()), WithLogger(discardLogger()), WithFs(fs), WithClock(func() time.Time { return now }))

	path, err := s.Screenshot(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/shots/screenshot_20260304_050607.png", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "valid PNG")

	path, err = s.Screenshot(context.Background(), "/tmp/out/named.png")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out/named.png", path)
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVerbFailuresLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	b, _, resolver := newRecordingBrowser(t, WithLogger(logger))
	resolver.target = nil

	require.Error(t, b.Reload(context.Background()))
	assert.Empty(t, buf.String(), "callers report the returned error")

	var debug bytes.Buffer
	b, _, resolver = newRecordingBrowser(t, WithLogger(slog.New(slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	resolver.target = nil
	require.Error(t, b.Reload(context.Background()))
	assert.Contains(t, debug.String(), `msg="reload failed"`)
}

func TestScreenshotWithoutDataFails(t *testing.T) {
	for name, reply := range map[string]string{"missing": `{}`, "empty": `{"data":""}`} {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			b, sender, _ := newRecordingBrowser(t, WithFs(fs))
			sender.replies["Page.captureScreenshot"] = Result(reply)

			path, err := b.Screenshot(context.Background(), "/x/shot.png")
			require.Error(t, err)
			assert.Empty(t, path)
			exists, err := afero.Exists(fs, "/x/shot.png")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	x, y, err := ParseCoordinates("10, 20.5")
	require.NoError(t, err)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.5, y)

	for _, bad := range []string{"", "10", "a,b", "10,", ",5"} {
		_, _, err := ParseCoordinates(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}
