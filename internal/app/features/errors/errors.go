// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs an error response with a structured log line. It is
// constructed once in bootstrap and shared by all feature handlers.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger on the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs the internal reason and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg, zap.String("path", r.URL.Path), zap.Error(err))
	RenderBadRequest(w, userMsg)
}

// LogNotFound logs the internal reason and answers 404 with userMsg.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Info(logMsg, zap.String("path", r.URL.Path), zap.Error(err))
	RenderNotFound(w, userMsg)
}

// LogServerError logs the failure and answers 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg, zap.String("path", r.URL.Path), zap.Error(err))
	RenderServerError(w, userMsg)
}
