package controller

import "log/slog"

// Notifier receives the toast-style side effects of controller operations.
// Validation failures never reach it — those are shown inline by the form.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// LogNotifier writes notifications to a slog logger. The web gateway swaps
// in an SSE-backed notifier; this one serves everything else.
type LogNotifier struct {
	Log *slog.Logger
}

func (n *LogNotifier) Success(msg string) { n.Log.Info("notify", "kind", "success", "msg", msg) }
func (n *LogNotifier) Failure(msg string) { n.Log.Warn("notify", "kind", "failure", "msg", msg) }
