// Package server exposes a loaded dictionary index over HTTP: exact
// membership, prefix existence, and completions. Inputs are normalized
// at this boundary; the automaton core only ever sees uppercase A-Z.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/wordlist"
)

const defaultCompletionLimit = 50

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dawgdict",
		Name:      "queries_total",
		Help:      "Dictionary queries served, by operation.",
	}, []string{"op"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dawgdict",
		Name:      "query_duration_seconds",
		Help:      "Dictionary query latency, by operation.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
	}, []string{"op"})
)

// Server answers dictionary queries against an Index.
type Server struct {
	index *dawg.Index
	log   *slog.Logger
}

// NewHandler builds the HTTP handler for the given index.
func NewHandler(index *dawg.Index, log *slog.Logger) http.Handler {
	s := &Server{index: index, log: log}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/words/{word}", s.word)
		r.Get("/prefix/{prefix}", s.prefix)
		r.Get("/completions", s.completions)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.index.Loaded() {
		status = "loading"
	}
	s.respond(w, map[string]string{"status": status})
}

func (s *Server) word(w http.ResponseWriter, r *http.Request) {
	defer observe("isWord", time.Now())

	word := wordlist.NormalizeWord(chi.URLParam(r, "word"))
	found, err := s.index.IsWord(word)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, map[string]any{"word": word, "found": found})
}

func (s *Server) prefix(w http.ResponseWriter, r *http.Request) {
	defer observe("isPrefix", time.Now())

	prefix := wordlist.NormalizeWord(chi.URLParam(r, "prefix"))
	found, err := s.index.IsPrefix(prefix)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, map[string]any{"prefix": prefix, "found": found})
}

func (s *Server) completions(w http.ResponseWriter, r *http.Request) {
	defer observe("completions", time.Now())

	prefix := wordlist.NormalizeWord(r.URL.Query().Get("prefix"))
	limit := defaultCompletionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	seq, err := s.index.Completions(prefix, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	words := []string{}
	for word := range seq {
		words = append(words, word)
	}
	s.respond(w, map[string]any{"prefix": prefix, "words": words})
}

func (s *Server) respond(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dawg.ErrNotLoaded) {
		http.Error(w, "dictionary is still loading", http.StatusServiceUnavailable)
		return
	}
	s.log.Error("query failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func observe(op string, startedAt time.Time) {
	queriesTotal.WithLabelValues(op).Inc()
	queryDuration.WithLabelValues(op).Observe(time.Since(startedAt).Seconds())
}
