package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cwrk-planet/practice-service/internal/logger"
)

// StatusWriter запоминает статус и размер ответа для логов и метрик.
type StatusWriter struct {
	http.ResponseWriter
	Status int
	Bytes  int64
}

func (w *StatusWriter) WriteHeader(code int) {
	w.Status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *StatusWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.Bytes += int64(n)
	return n, err
}

func (w *StatusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MiddlewareLogging пишет одну запись на запрос; уровень зависит от статуса.
// Тела не логируются: в них бывают коды доступа к комнатам.
func MiddlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &StatusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		if sw.Status == 0 {
			sw.Status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case sw.Status >= 500:
			level = slog.LevelError
		case sw.Status >= 400:
			level = slog.LevelWarn
		}

		logger.FromCtx(r.Context()).LogAttrs(
			r.Context(),
			level,
			"http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.Status),
			slog.Int64("bytes", sw.Bytes),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_ip", r.RemoteAddr),
		)
	})
}
