package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type logCtxKey struct{}

// Debug logs keep at most this much of a request or response body.
const maxLoggedBody = 2 << 10

// Header values replaced with a marker in debug logs. Keys are lower case.
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
	"x-csrf-token":  true,
}

// Login and register bodies carry a password, backups carry every stored
// password. Their bodies are never logged in either direction.
var sensitivePaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/api/v1/backup",
}

// responseLogger counts what the handler writes. body is only set when the
// response is going to be logged.
type responseLogger struct {
	http.ResponseWriter
	statusCode int
	written    int
	body       *bytes.Buffer
}

func newResponseLogger(w http.ResponseWriter, capture bool) *responseLogger {
	rl := &responseLogger{ResponseWriter: w, statusCode: http.StatusOK}
	if capture {
		rl.body = new(bytes.Buffer)
	}
	return rl
}

func (rl *responseLogger) WriteHeader(statusCode int) {
	rl.statusCode = statusCode
	rl.ResponseWriter.WriteHeader(statusCode)
}

func (rl *responseLogger) Write(b []byte) (int, error) {
	if rl.body != nil && rl.body.Len() < maxLoggedBody+1 {
		rl.body.Write(b)
	}
	n, err := rl.ResponseWriter.Write(b)
	rl.written += n
	return n, err
}

// LoggingMiddleware logs the start and end of every request and stores a
// request scoped logger, tagged with the chi request id, in the context.
// Headers and bodies are logged at debug level only.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With("req_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(WithLogger(r.Context(), requestLogger))

			requestLogger.Info("Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			sensitive := slices.Contains(sensitivePaths, r.URL.Path)
			debug := logger.Enabled(r.Context(), slog.LevelDebug)
			var reqBody []byte
			if debug && !sensitive && r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			rl := newResponseLogger(w, debug && !sensitive)
			next.ServeHTTP(rl, r)

			latency := time.Since(startTime)
			statusCode := rl.statusCode

			logLevel := slog.LevelInfo
			if statusCode >= 500 {
				logLevel = slog.LevelError
			} else if statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(r.Context(), logLevel, "Request completed",
				"status", statusCode,
				"latency_ms", float64(latency.Nanoseconds())/1e6,
				"bytes_out", rl.written,
			)

			if !debug {
				return
			}
			reqLogged, respLogged := "[SENSITIVE]", "[SENSITIVE]"
			if !sensitive {
				reqLogged = truncateBody(reqBody, len(reqBody))
				respLogged = truncateBody(rl.body.Bytes(), rl.written)
			}
			requestLogger.Debug("Request detail",
				"headers", formatHeaders(r.Header),
				"body", reqLogged,
			)
			requestLogger.Debug("Response detail",
				"status", statusCode,
				"headers", formatHeaders(rl.Header()),
				"body", respLogged,
			)
		})
	}
}

// truncateBody cuts b to maxLoggedBody. total is the full body size.
func truncateBody(b []byte, total int) string {
	if len(b) > maxLoggedBody {
		b = b[:maxLoggedBody]
	}
	if total > len(b) {
		return fmt.Sprintf("%s... [%d bytes]", b, total)
	}
	return string(b)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

// GetLogger returns the request scoped logger, or slog.Default outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
			continue
		}
		result[key] = strings.Join(values, ", ")
	}
	return result
}
