package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init builds the process logger and installs it as the slog default.
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors are also forwarded to Sentry when a DSN is configured.
func Init(isDev bool, sentryDSN, appName string) {
	handlers := []slog.Handler{baseHandler(os.Stdout, isDev)}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			ServerName:       appName,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.Warn("sentry init failed, continuing without it", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = New(handlers...).With("app", appName)
	slog.SetDefault(Log)
}

// New fans out to every handler given; with a single handler it is used as is.
func New(handlers ...slog.Handler) *slog.Logger {
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func baseHandler(w io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Flush waits for buffered Sentry events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
