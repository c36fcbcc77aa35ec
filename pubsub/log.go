package pubsub

import "log/slog"

// logger is the package-level logger used for dispatch diagnostics:
// callback panics, bridge encode failures, and dropped serialized
// publishes. Broker start and stop are not logged. It defaults
// to slog's default logger so embedding this library costs nothing
// until the host application wires its own handler.
var logger = slog.Default()

// SetLogger overrides the logger used for broker and dispatch
// diagnostics. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	logger = l
}
