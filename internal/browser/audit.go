package browser

import (
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
)

// sensitiveCommands change page state or run arbitrary code in it.
var sensitiveCommands = map[string]bool{
	runtime.CommandEvaluate:         true,
	runtime.CommandCallFunctionOn:   true,
	page.CommandNavigate:            true,
	page.CommandSetDocumentContent:  true,
	input.CommandDispatchKeyEvent:   true,
	input.CommandDispatchMouseEvent: true,
	input.CommandInsertText:         true,
}

type commandAudit struct {
	logger *slog.Logger
}

func newCommandAudit(logger *slog.Logger) *commandAudit {
	return &commandAudit{logger: logger}
}

func (a *commandAudit) logCommand(targetID, method string) {
	if a == nil {
		return
	}

	attrs := []any{
		"target", truncateID(targetID),
		"method", method,
		"ts", time.Now().Unix(),
	}

	if sensitiveCommands[method] {
		a.logger.Info("cdp_sensitive_command", attrs...)
	} else {
		a.logger.Debug("cdp_command", attrs...)
	}
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
