package observability

import "log/slog"

// LogNotifier is a domain.Notifier that lands user-facing messages on the
// structured log. Front-ends with a toast surface supply their own.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Info("notify", "kind", "success", "message", msg)
}

func (n *LogNotifier) Error(msg string) {
	n.log.Warn("notify", "kind", "error", "message", msg)
}
