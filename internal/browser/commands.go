package browser

import (
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/tidwall/gjson"
)

// Command is a single protocol request. Params is always serialized, so an
// empty params value goes out as {}.
type Command struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

// Result is the raw JSON of a response's result member.
type Result []byte

// Get extracts a field from the result using a gjson path.
func (r Result) Get(path string) gjson.Result {
	return gjson.GetBytes(r, path)
}

// commandInputEnable has no generated params type; it is sent with empty params.
const commandInputEnable = "Input.enable"

type emptyParams struct{}

// PageNavigate loads url in the target.
func PageNavigate(url string) Command {
	return Command{Method: page.CommandNavigate, Params: page.Navigate(url)}
}

// PageReload reloads the target.
func PageReload() Command {
	return Command{Method: page.CommandReload, Params: page.Reload()}
}

// PageCaptureScreenshot captures the viewport as PNG.
func PageCaptureScreenshot() Command {
	params := page.CaptureScreenshot().
		WithFormat(page.CaptureScreenshotFormatPng).
		WithQuality(90)
	return Command{Method: page.CommandCaptureScreenshot, Params: params}
}

// RuntimeEnable enables the Runtime domain on the connection.
func RuntimeEnable() Command {
	return Command{Method: runtime.CommandEnable, Params: runtime.Enable()}
}

// RuntimeEvaluate evaluates expression and returns the result by value.
func RuntimeEvaluate(expression string) Command {
	params := runtime.Evaluate(expression).WithReturnByValue(true)
	return Command{Method: runtime.CommandEvaluate, Params: params}
}

// InputEnable enables input dispatch on the connection.
func InputEnable() Command {
	return Command{Method: commandInputEnable, Params: emptyParams{}}
}

// InputMousePressed presses the left button once at (x, y).
func InputMousePressed(x, y float64) Command {
	params := input.DispatchMouseEvent(input.MousePressed, x, y).
		WithButton(input.Left).
		WithClickCount(1)
	return Command{Method: input.CommandDispatchMouseEvent, Params: params}
}

// InputMouseReleased releases the left button at (x, y).
func InputMouseReleased(x, y float64) Command {
	params := input.DispatchMouseEvent(input.MouseReleased, x, y).
		WithButton(input.Left).
		WithClickCount(1)
	return Command{Method: input.CommandDispatchMouseEvent, Params: params}
}

// InputChar inserts text as a single char event.
func InputChar(text string) Command {
	params := input.DispatchKeyEvent(input.KeyChar).WithText(text)
	return Command{Method: input.CommandDispatchKeyEvent, Params: params}
}

// inputKeyDown presses a named key.
func inputKeyDown(def keyDefinition) Command {
	params := input.DispatchKeyEvent(input.KeyDown).
		WithKey(def.Key).
		WithCode(def.Code).
		WithWindowsVirtualKeyCode(def.KeyCode).
		WithNativeVirtualKeyCode(def.KeyCode).
		WithText(def.Text).
		WithUnmodifiedText(def.Text)
	return Command{Method: input.CommandDispatchKeyEvent, Params: params}
}

// inputKeyUp releases a named key.
func inputKeyUp(def keyDefinition) Command {
	params := input.DispatchKeyEvent(input.KeyUp).
		WithKey(def.Key).
		WithCode(def.Code).
		WithWindowsVirtualKeyCode(def.KeyCode).
		WithNativeVirtualKeyCode(def.KeyCode)
	return Command{Method: input.CommandDispatchKeyEvent, Params: params}
}
