package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/sink"
)

const (
	maxBodyBytes   = 4 << 10
	requestTimeout = 30 * time.Second
)

// submission mirrors the JSON summary a finished session posts. Pointer
// fields distinguish missing keys from zero values.
type submission struct {
	Trials        *int             `json:"trials"`
	Hits          *int             `json:"hits"`
	Bullseyes     *int             `json:"bullseyes"`
	TotalScore    *int             `json:"totalScore"`
	AvgReactionMs *decimal.Decimal `json:"avgReactionMs"`
	HitRate       *decimal.Decimal `json:"hitRate"`
}

// Result is one accepted submission
type Result struct {
	ID            string          `json:"id"`
	ReceivedAt    time.Time       `json:"receivedAt"`
	Trials        int             `json:"trials"`
	Hits          int             `json:"hits"`
	Bullseyes     int             `json:"bullseyes"`
	TotalScore    int             `json:"totalScore"`
	AvgReactionMs decimal.Decimal `json:"avgReactionMs"`
	HitRate       decimal.Decimal `json:"hitRate"`
}

// validate checks field presence and the relations a real session guarantees
func (s submission) validate() error {
	switch {
	case s.Trials == nil || s.Hits == nil || s.Bullseyes == nil || s.TotalScore == nil ||
		s.AvgReactionMs == nil || s.HitRate == nil:
		return errors.New("missing field")
	case *s.Trials <= 0:
		return fmt.Errorf("trials must be positive, got %d", *s.Trials)
	case *s.Hits < 0 || *s.Hits > *s.Trials:
		return fmt.Errorf("hits %d outside [0, %d]", *s.Hits, *s.Trials)
	case *s.Bullseyes < 0 || *s.Bullseyes > *s.Hits:
		return fmt.Errorf("bullseyes %d outside [0, %d]", *s.Bullseyes, *s.Hits)
	case *s.TotalScore != 5**s.Hits+5**s.Bullseyes:
		return fmt.Errorf("totalScore %d inconsistent with hits and bullseyes", *s.TotalScore)
	case s.AvgReactionMs.IsNegative():
		return errors.New("avgReactionMs must not be negative")
	case s.HitRate.IsNegative() || s.HitRate.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("hitRate %s outside [0, 1]", s.HitRate)
	}
	return nil
}

// Server collects session summaries in memory
type Server struct {
	log *zap.Logger
	now func() time.Time

	mu      sync.RWMutex
	results []Result
}

// NewServer creates a collector
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, now: time.Now}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Heartbeat("/health"))
	r.Use(corsMiddleware)

	r.Post("/results", s.handleSubmit)
	r.Get("/results", s.handleList)

	return r
}

// corsMiddleware lets browser builds post from any origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sink.SessionHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("remoteAddr", r.RemoteAddr),
		)
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var sub submission
	if err := dec.Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := sub.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Retried posts reuse the session id; keep the first copy only
	id := r.Header.Get(sink.SessionHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	res := Result{
		ID:            id,
		ReceivedAt:    s.now().UTC(),
		Trials:        *sub.Trials,
		Hits:          *sub.Hits,
		Bullseyes:     *sub.Bullseyes,
		TotalScore:    *sub.TotalScore,
		AvgReactionMs: *sub.AvgReactionMs,
		HitRate:       *sub.HitRate,
	}
	dup := s.store(res)

	s.log.Info("result received",
		zap.String("id", id),
		zap.Bool("duplicate", dup),
		zap.Int("trials", res.Trials),
		zap.Int("hits", res.Hits),
		zap.Int("bullseyes", res.Bullseyes),
		zap.Int("totalScore", res.TotalScore),
		zap.String("avgReactionMs", res.AvgReactionMs.StringFixed(3)),
		zap.String("hitRate", res.HitRate.StringFixed(3)),
	)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "accepted",
		"id":        id,
		"duplicate": dup,
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Results())
}

// store appends res unless its id was seen. Returns true for a duplicate.
func (s *Server) store(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.results {
		if existing.ID == res.ID {
			return true
		}
	}
	s.results = append(s.results, res)
	return false
}

// Results returns a copy of every accepted submission in arrival order
func (s *Server) Results() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
