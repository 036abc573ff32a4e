package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwrk-planet/practice-service/internal/logger"
	httpmw "github.com/cwrk-planet/practice-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Deps struct {
	Handler  *Handler
	Verifier httpmw.TokenVerifier // nil: доверяем X-User-ID от шлюза

	AllowedOrigins []string
	RequestTimeout time.Duration

	// Registry == nil выключает метрики и /metrics.
	Registry *prometheus.Registry
	Tracing  bool

	// Ready проверяет хранилище для /readyz; nil: всегда готов.
	Ready func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httputil.MiddlewareRequestID)
	r.Use(httputil.MiddlewareLogging)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{httputil.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.Registry != nil {
		r.Use(httpmw.NewMetrics(d.Registry).Handler)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}
	if d.Tracing {
		r.Use(httpmw.SpanRoute)
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				logger.FromCtx(r.Context()).Warn("readiness check failed", slog.Any("err", err))
				httputil.ErrorMsg(w, http.StatusServiceUnavailable, "storage unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := d.Handler

	// Всё остальное требует идентификации пользователя
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.Auth(d.Verifier))
		if d.RequestTimeout > 0 {
			pr.Use(middlewareChi.Timeout(d.RequestTimeout))
		}

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Get("/", h.ListMyRooms)
			rm.Post("/", h.CreateRoom)
			rm.Get("/public", h.ListPublicRooms)
			rm.Post("/join", h.JoinRoomByBody)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Put("/", h.UpdateRoom)
				rr.Delete("/", h.DeleteRoom)
				rr.Post("/join", h.JoinRoom)
				rr.Post("/leave", h.LeaveRoom)
			})
		})

		pr.Route("/sessions", func(sr chi.Router) {
			sr.Get("/", h.ListSessions)
			sr.Post("/", h.CreateSession)
			sr.Post("/start", h.StartSession)
			sr.Get("/stats", h.SessionStats)

			sr.Route("/{id}", func(ss chi.Router) {
				ss.Get("/", h.GetSession)
				ss.Put("/", h.UpdateSession)
				ss.Delete("/", h.DeleteSession)
				ss.Patch("/finish", h.FinishSession)
			})
		})

		pr.Route("/techniques", func(tr chi.Router) {
			tr.Get("/", h.ListTechniques)
			tr.Get("/{id}", h.GetTechnique)
		})
	})

	if !d.Tracing {
		return r
	}
	return otelhttp.NewHandler(r, "http.server")
}
