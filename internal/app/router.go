package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/secure"

	"github.com/roastline/roastline/internal/observability"
	"github.com/roastline/roastline/internal/platform/httpx"
)

// RouterParams groups dependencies for the ops HTTP surface. This service
// deliberately exposes no KPI read API; the router only serves health,
// readiness, queue state and metrics.
type RouterParams struct {
	Logger    *slog.Logger
	Config    *Config
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Inspector *asynq.Inspector
	Metrics   *observability.Metrics
}

// NewRouter constructs the chi.Router for the ops endpoints.
func NewRouter(params RouterParams) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        params.Config != nil && params.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(params.Metrics.Middleware)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		checks := map[string]string{"postgres": "ok", "redis": "ok"}
		status := http.StatusOK
		if params.Pool != nil {
			if err := params.Pool.Ping(ctx); err != nil {
				checks["postgres"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if params.Redis != nil {
			if err := params.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		httpx.JSON(w, status, checks)
	})

	r.Get("/jobs/health", func(w http.ResponseWriter, _ *http.Request) {
		if params.Inspector == nil {
			httpx.JSON(w, http.StatusOK, map[string]any{"queue": "default", "pending": 0})
			return
		}
		info, err := params.Inspector.GetQueueInfo("default")
		if err != nil {
			if params.Logger != nil {
				params.Logger.Warn("jobs health", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "task queue inspection failed")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"queue": info.Queue, "pending": info.Pending})
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	return r
}
