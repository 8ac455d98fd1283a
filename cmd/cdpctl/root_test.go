package cli

import (
	"bytes"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/neboloop/cdpctl/internal/browser"
	"github.com/neboloop/cdpctl/internal/cdptest"
	"github.com/neboloop/cdpctl/internal/config"
)

// execute runs the CLI against srv and returns stdout.
func execute(t *testing.T, srv *cdptest.Server, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeCapture(t, srv, args...)
	return out, err
}

// executeCapture runs the CLI against srv and returns stdout and stderr.
func executeCapture(t *testing.T, srv *cdptest.Server, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CDPCTL_SETTLE_DELAY", "1ms")
	t.Setenv("CDPCTL_TYPE_DELAY", "1ms")

	p := 1
	if srv != nil {
		p = srv.Port()
	}
	base := []string{
		"--config", writeConfig(t),
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(p),
		"--state-dir", t.TempDir(),
	}

	var out, errOut bytes.Buffer
	cmd := SetupRootCmd(&config.Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_url: http://localhost:5173\n"), 0o644))
	return path
}

func newServer(t *testing.T) *cdptest.Server {
	t.Helper()
	srv := cdptest.New()
	t.Cleanup(srv.Close)
	srv.AddTarget("http://localhost:5173/")
	return srv
}

func TestTypeCommand(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, srv, "type", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "Typed 2 characters")
	assert.Equal(t, []string{"Input.enable", "Input.dispatchKeyEvent", "Input.dispatchKeyEvent"}, srv.Methods())
}

func TestClickCommand(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, srv, "click", "10,20")
	require.NoError(t, err)

	cmds := srv.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, 10.0, gjson.GetBytes(cmds[1].Params, "x").Float())
	assert.Equal(t, 20.0, gjson.GetBytes(cmds[1].Params, "y").Float())
}

func TestQuietFlagSuppressesLogs(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	srv := newServer(t)

	_, stderr, err := executeCapture(t, srv, "click", "10,20")
	require.NoError(t, err)
	assert.Contains(t, stderr, "clicked")

	_, stderr, err = executeCapture(t, srv, "--quiet", "click", "10,20")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestClickMalformedCoordinatesNeverConnects(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, srv, "click", "ten,twenty")
	require.ErrorIs(t, err, browser.ErrInvalidArgument)
	assert.Empty(t, srv.Commands())
	assert.Zero(t, srv.Opens())
}

func TestScrollInvalidDirection(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, srv, "scroll", "sideways")
	require.ErrorIs(t, err, browser.ErrInvalidArgument)
	assert.Zero(t, srv.Opens())
}

func TestStatusCommand(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, srv, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Browser running")
	assert.Contains(t, out, "cdp-browser.json")

	out, err = execute(t, srv, "--json", "status")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "running").Bool())
	assert.Equal(t, int64(srv.Port()), gjson.Get(out, "connection.cdp_port").Int())
}

func TestStatusCommandNotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	var out bytes.Buffer
	cmd := SetupRootCmd(&config.Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", writeConfig(t), "--host", "127.0.0.1", "--port", strconv.Itoa(port), "--state-dir", t.TempDir(), "status"})

	err = cmd.Execute()
	require.ErrorIs(t, err, browser.ErrUnreachable)
	assert.Contains(t, out.String(), "not running")
}

func TestEvaluateCommand(t *testing.T) {
	srv := newServer(t)
	srv.Handle("Runtime.evaluate", func(cdptest.Command) cdptest.Reply {
		return cdptest.Reply{Result: map[string]any{"result": map[string]any{"type": "number", "value": 3}}}
	})

	out, err := execute(t, srv, "evaluate", "1", "+", "2")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Equal(t, "1 + 2", gjson.GetBytes(srv.Commands()[1].Params, "expression").String())
}

func TestRunCommandReportsFailures(t *testing.T) {
	srv := newServer(t)
	script := filepath.Join(t.TempDir(), "steps.yaml")
	require.NoError(t, os.WriteFile(script, []byte("- key: Enter\n- scroll: sideways\n- click: \"1,2\"\n"), 0o644))

	out, err := execute(t, srv, "run", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 steps failed")
	assert.Contains(t, out, "key Enter")
	assert.Contains(t, out, "click 1,2")
}

func TestInvalidPortFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := SetupRootCmd(&config.Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", writeConfig(t), "--port", "70000", "status"})
	require.ErrorIs(t, cmd.Execute(), browser.ErrInvalidArgument)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, &browser.ProtocolError{Method: "Page.navigate", Code: -32000, Message: "boom"})
	assert.Contains(t, buf.String(), "rejected Page.navigate")
}
