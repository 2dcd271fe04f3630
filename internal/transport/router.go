package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Router builds the API routes behind CORS, panic recovery and request metrics.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Put("/label", h.setLabel)
			r.Post("/blur", h.blurLabel)
			r.Post("/submit", h.submit)
			r.Post("/refetch", h.refetch)
			r.Post("/tokens/{tokenID}/select", h.selectToken)
		})
		if h.deps.Subnames != nil {
			r.Get("/subnames", h.listSubnames)
			r.Post("/subnames/{tokenID}/{action}", h.subnameAction)
		}
		r.Get("/attempts", h.listAttempts)
	})
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	return h.cors().Handler(r)
}

func (h *Handler) cors() *cors.Cors {
	if len(h.cfg.AllowedOrigins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Options{
		AllowedOrigins: h.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
}

func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		h.deps.Metrics.ObserveRequest(route, r.Method, code, started)
		h.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("code", code),
			zap.Duration("took", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
