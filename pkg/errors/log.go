package errors

import "go.uber.org/zap"

// LogHandler is an ErrorHandler that writes errors to a zap logger.
type LogHandler struct {
	// Logger receives the records. A nil Logger discards everything.
	Logger *zap.Logger
	// Verbose adds stack traces to the records.
	Verbose bool
}

// HandleError logs an Error at error level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Element != "" {
		fields = append(fields, zap.String("element", err.Element))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("collapsible error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil || h.Logger == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("collapsible panic", fields...)
}
