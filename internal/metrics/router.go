package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/arkanoid/internal/storage"
)

// ScoreSource is the part of the store the router reads.
type ScoreSource interface {
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// RouterConfig contains the router dependencies.
type RouterConfig struct {
	Metrics *Metrics
	Scores  ScoreSource // Optional, enables /api/scores
	Logger  *log.Logger
}

// NewRouter builds the HTTP router. It starts nothing.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger.WithPrefix("http")))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{}))
	}
	if cfg.Scores != nil {
		r.Route("/api", func(r chi.Router) {
			r.Get("/scores", scoresHandler(cfg.Scores))
		})
	}
	return r
}

type scoreJSON struct {
	Player string    `json:"player"`
	Score  int       `json:"score"`
	Level  int       `json:"level"`
	Name   string    `json:"level_name,omitempty"`
	When   time.Time `json:"created_at"`
}

func scoresHandler(src ScoreSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 100 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		entries, err := src.TopScores(limit)
		if err != nil {
			http.Error(w, "scores unavailable", http.StatusInternalServerError)
			return
		}
		out := make([]scoreJSON, len(entries))
		for i, e := range entries {
			out[i] = scoreJSON{Player: e.Player, Score: e.Score, Level: e.Level, Name: e.LevelName, When: e.CreatedAt}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"dur", time.Since(start),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Serve runs handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics: serve: %w", err)
	}
	return nil
}
