package logging

import "log/slog"

// WithComponent returns logger with subsystem context, e.g. "buffer" or "heap"
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithTx returns logger with transaction context
func WithTx(txID uint32) *slog.Logger {
	return GetLogger().With("tx_id", txID)
}

// WithTable returns logger with table context
func WithTable(rel uint64, path string) *slog.Logger {
	return GetLogger().With("rel", rel, "path", path)
}

// WithPage returns logger with page context
func WithPage(rel uint64, pageNum uint32) *slog.Logger {
	return GetLogger().With("rel", rel, "page", pageNum)
}

// WithError returns logger with error context
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
