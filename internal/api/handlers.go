package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"falcon-odds/internal/config"
	"falcon-odds/internal/engine"
	"falcon-odds/internal/logger"
	"falcon-odds/internal/metrics"
)

//go:embed static/index.html
var indexHTML []byte

// Outcome is a cached odds computation.
type Outcome struct {
	engine.Result
	// SkippedHunters counts hunters placed on planets outside of the map.
	SkippedHunters int
}

type oddsResponse struct {
	Probability    float64 `json:"probability"`
	Percentage     string  `json:"percentage"`
	Encounters     uint64  `json:"encounters"`
	Reached        bool    `json:"reached"`
	Expanded       int     `json:"expanded"`
	SkippedHunters int     `json:"skipped_hunters"`
	Cached         bool    `json:"cached"`
}

type missionResponse struct {
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	Autonomy  uint64   `json:"autonomy"`
	Resolved  bool     `json:"resolved"`
	Planets   []string `json:"planets"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMission(w http.ResponseWriter, r *http.Request) {
	m := s.mission
	writeJSON(w, r, missionResponse{
		Departure: m.Departure,
		Arrival:   m.Arrival,
		Autonomy:  m.Autonomy,
		Resolved:  m.Resolved(),
		Planets:   m.Registry.Names(),
	})
}

func (s *Server) handleProba(w http.ResponseWriter, r *http.Request) {
	out, _, ok := s.computeFromRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, Percentage(out.Probability))
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	out, cached, ok := s.computeFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, oddsResponse{
		Probability:    out.Probability,
		Percentage:     Percentage(out.Probability),
		Encounters:     out.Encounters,
		Reached:        out.Reached,
		Expanded:       out.Expanded,
		SkippedHunters: out.SkippedHunters,
		Cached:         cached,
	})
}

// computeFromRequest decodes the empire plan in the request body and returns
// its odds. On failure the error response is already written and ok is false.
func (s *Server) computeFromRequest(w http.ResponseWriter, r *http.Request) (out Outcome, cached, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "empire document too large")
			return Outcome{}, false, false
		}
		writeError(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return Outcome{}, false, false
	}
	empire, err := config.ParseEmpire(body, config.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return Outcome{}, false, false
	}
	out, cached, err = s.Compute(r.Context(), empire)
	if err != nil {
		logger.Error("Odds", err.Error())
		writeError(w, r, http.StatusInternalServerError, "odds computation failed")
		return Outcome{}, false, false
	}
	return out, cached, true
}

// Compute returns the odds for an empire plan, going through the result
// cache. Concurrent requests for the same plan share one computation.
func (s *Server) Compute(ctx context.Context, empire *config.Empire) (Outcome, bool, error) {
	key := CacheKey(s.fingerprint, empire)

	if out, hit := s.cache.Get(ctx, key); hit {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return out, true, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		sched, skipped := empire.Schedule(s.mission.Registry)
		res, err := s.mission.ComputeOdds(sched, empire.Countdown)
		if err != nil {
			metrics.OddsComputations.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("compute odds: %w", err)
		}
		recordOutcome(s.mission, res)
		out := Outcome{Result: res, SkippedHunters: skipped}
		// The request context may be cancelled; the cache write must not be.
		s.cache.Set(context.WithoutCancel(ctx), key, out)
		return out, nil
	})
	if err != nil {
		return Outcome{}, false, err
	}
	return v.(Outcome), false, nil
}

func recordOutcome(m *engine.Mission, res engine.Result) {
	outcome := metrics.OutcomeReached
	switch {
	case !m.Resolved():
		outcome = metrics.OutcomeUnknownLocation
	case !res.Reached:
		outcome = metrics.OutcomeUnreachable
	}
	metrics.OddsComputations.WithLabelValues(outcome).Inc()
	metrics.ExpandedStates.Observe(float64(res.Expanded))
}

// Percentage formats a probability as the shortest decimal percentage,
// e.g. 0.81 -> "81%".
func Percentage(p float64) string {
	return strconv.FormatFloat(p*100, 'f', -1, 64) + "%"
}
