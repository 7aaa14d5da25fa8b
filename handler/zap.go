package handler

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/logtools-dev/logtools/core"
)

// ZapHandler forwards log entries to a zap.Logger so applications with
// an existing zap stack can receive logtools output there.
type ZapHandler struct {
	logger *zap.Logger
}

// NewZapHandler wraps the given zap logger.
func NewZapHandler(l *zap.Logger) *ZapHandler {
	return &ZapHandler{logger: l}
}

// Handle converts the entry to a zap entry and writes it through the
// wrapped logger's core.
func (h *ZapHandler) Handle(entry *core.Entry) error {
	ce := h.logger.Check(zapLevel(entry.Level), entry.Message)
	if ce == nil {
		return nil
	}
	ce.Time = entry.Time
	if entry.Caller.Defined {
		ce.Caller = zapcore.NewEntryCaller(0, entry.Caller.File, entry.Caller.Line, true)
	}
	ce.Write(zapFields(entry)...)
	return nil
}

// CanRecycleEntry returns true; zap copies what it needs during Write.
func (h *ZapHandler) CanRecycleEntry() bool {
	return true
}

// Close flushes the wrapped logger.
func (h *ZapHandler) Close() error {
	return h.logger.Sync()
}

// zapLevel maps a core level to zap. Fatal and Panic map to zap's
// Error: process termination stays with the emitting logger, never
// with a forwarding sink.
func zapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.DebugLevel:
		return zapcore.DebugLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.WarnLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func zapFields(entry *core.Entry) []zapcore.Field {
	n := len(entry.Fields)
	if entry.Err != nil {
		n++
	}
	if n == 0 {
		return nil
	}

	fields := make([]zapcore.Field, 0, n)
	for _, f := range entry.Fields {
		fields = append(fields, zapField(f))
	}
	if entry.Err != nil {
		fields = append(fields, zap.Error(entry.Err))
	}
	return fields
}

func zapField(f core.Field) zapcore.Field {
	switch f.Type {
	case core.StringType:
		return zap.String(f.Key, f.Str)
	case core.IntType, core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	case core.TimeType:
		return zap.Time(f.Key, time.Unix(0, f.Int64))
	case core.DurationType:
		return zap.Duration(f.Key, time.Duration(f.Int64))
	case core.ErrorType:
		return zap.String(f.Key, f.Str)
	default:
		return zap.Any(f.Key, f.Any)
	}
}
