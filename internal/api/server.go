package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"falcon-odds/internal/engine"
	"falcon-odds/internal/logger"
	"falcon-odds/internal/metrics"
)

// maxBodyBytes caps the size of an empire document.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server answering odds requests for one mission.
type Server struct {
	mission     *engine.Mission
	fingerprint string
	cache       OddsCache
	limiter     *rate.Limiter

	// Coalesces concurrent computations for the same empire plan.
	group singleflight.Group
}

// Option configures a Server.
type Option func(*Server)

// WithCache replaces the default in-memory result cache.
func WithCache(c OddsCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithRateLimit limits POST requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewServer creates a Server for the given mission. By default results are
// kept in memory for ten minutes and requests are not rate limited.
func NewServer(mission *engine.Mission, opts ...Option) *Server {
	s := &Server{
		mission:     mission,
		fingerprint: missionFingerprint(mission),
		cache:       NewMemoryCache(10 * time.Minute),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health_check", s.handleHealthCheck)
	mux.HandleFunc("GET /api/mission", s.handleMission)
	mux.HandleFunc("POST /proba", s.limit(s.handleProba))
	mux.HandleFunc("POST /api/odds", s.limit(s.handleOdds))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return requestIDMiddleware(logMiddleware(corsMiddleware(mux)))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// writeJSON encodes v before writing anything, so an unencodable value turns
// into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("HTTP", fmt.Sprintf("encode %s response: %v", r.URL.Path, err))
		writeError(w, r, http.StatusInternalServerError, "response encoding failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Problem{
		Type:     "about:blank",
		Title:    http.StatusText(code),
		Status:   code,
		Detail:   msg,
		Instance: r.URL.Path,
	}); err != nil {
		logger.Error("HTTP", fmt.Sprintf("write problem response: %v", err))
	}
}

// missionFingerprint identifies the mission in cache keys so that a shared
// cache never mixes results of different universes.
func missionFingerprint(m *engine.Mission) string {
	return fmt.Sprintf("%s|%s|%d|%d|%d", m.Departure, m.Arrival, m.Autonomy, m.Registry.Len(), m.Routes.Len())
}
