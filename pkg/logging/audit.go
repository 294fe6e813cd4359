package logging

import (
	"context"
	"log/slog"
)

const auditPrefix = "SECURITY_AUDIT: "

// Audit writes a security audit line for a credential lifecycle event.
// Succeeded events are logged at INFO, failures at WARN. attrs must never
// carry token material.
func Audit(event string, succeeded bool, message string, attrs ...slog.Attr) {
	level := slog.LevelInfo
	if !succeeded {
		level = slog.LevelWarn
	}

	logger := Logger()
	if !logger.Enabled(context.Background(), level) {
		return
	}

	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("subsystem", "Audit"), slog.String("event", event))
	all = append(all, attrs...)
	logger.LogAttrs(context.Background(), level, auditPrefix+message, all...)
}
