package browser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnreachable reports that the browser could not be probed, dialed or read from.
	ErrUnreachable = errors.New("browser unreachable")

	// ErrInvalidArgument reports caller input rejected before any network traffic.
	ErrInvalidArgument = errors.New("invalid argument")
)

// unreachableError carries the failing operation and the transport error
// while matching ErrUnreachable.
type unreachableError struct {
	op  string
	err error
}

func (e *unreachableError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *unreachableError) Unwrap() []error {
	return []error{ErrUnreachable, e.err}
}

func unreachable(op string, err error) error {
	return &unreachableError{op: op, err: err}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ProtocolError is a well-formed error response from the browser.
type ProtocolError struct {
	Method  string
	Code    int64
	Message string
	Data    string
	Raw     json.RawMessage
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%s: protocol error %d: %s", e.Method, e.Code, e.Message)
	if e.Data != "" {
		msg += " (" + e.Data + ")"
	}
	return msg
}

func newProtocolError(method string, raw []byte) *ProtocolError {
	return &ProtocolError{
		Method:  method,
		Code:    gjson.GetBytes(raw, "code").Int(),
		Message: gjson.GetBytes(raw, "message").String(),
		Data:    gjson.GetBytes(raw, "data").String(),
		Raw:     json.RawMessage(raw),
	}
}

// ScriptError is an exception thrown by an evaluated expression inside the page.
type ScriptError struct {
	Expression   string
	Text         string
	Description  string
	LineNumber   int64
	ColumnNumber int64
	Raw          json.RawMessage
}

func (e *ScriptError) Error() string {
	detail := e.Description
	if detail == "" {
		detail = e.Text
	}
	return fmt.Sprintf("script error at %d:%d: %s", e.LineNumber, e.ColumnNumber, detail)
}

func newScriptError(expression string, raw []byte) *ScriptError {
	return &ScriptError{
		Expression:   expression,
		Text:         gjson.GetBytes(raw, "text").String(),
		Description:  gjson.GetBytes(raw, "exception.description").String(),
		LineNumber:   gjson.GetBytes(raw, "lineNumber").Int(),
		ColumnNumber: gjson.GetBytes(raw, "columnNumber").Int(),
		Raw:          json.RawMessage(raw),
	}
}
