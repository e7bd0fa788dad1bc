// Package api exposes the read-only HTTP surface for dashboards.
//
// Mutation happens in-process through the core; the HTTP API only serves
// projections of the current state, so external consumers can never bypass
// the command ordering.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/visionquantech/youdao/internal/app/core"
	"github.com/visionquantech/youdao/internal/domain"
)

// Version is the reported API version.
const Version = "0.1.0"

// Server is the DAO HTTP API server.
type Server struct {
	core           *core.Core
	metricsEnabled bool
}

// NewServer creates a new API server over a running core.
func NewServer(c *core.Core) *Server {
	return &Server{core: c}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"version": Version,
			})
		})
		r.Get("/stats", s.handleStats)
		r.Get("/proposals", s.handleListProposals)
		r.Get("/proposals/{id}", s.handleGetProposal)
		r.Get("/decisions", s.handleListDecisions)
		r.Get("/licenses", s.handleListLicenses)
		r.Get("/successors", s.handleListSuccessors)
		r.Get("/treasury/transactions", s.handleListTransactions)
		r.Get("/guardian", s.handleGuardian)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.core.Snapshot())
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	var category *domain.ProposalCategory
	if q := r.URL.Query().Get("category"); q != "" {
		c, ok := domain.ParseCategory(q)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category: "+q)
			return
		}
		category = &c
	}

	proposals := s.core.Proposals(category)
	if q := r.URL.Query().Get("status"); q != "" {
		filtered := proposals[:0]
		for _, p := range proposals {
			if p.Status.String() == q {
				filtered = append(filtered, p)
			}
		}
		proposals = filtered
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"proposals": proposals,
		"count":     len(proposals),
	})
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	p, err := s.core.Proposal(id)
	if errors.Is(err, domain.ErrProposalNotFound) {
		writeError(w, http.StatusNotFound, "proposal not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	var proposalID *uint64
	if q := r.URL.Query().Get("proposal_id"); q != "" {
		id, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid proposal_id")
			return
		}
		proposalID = &id
	}
	decisions := s.core.Decisions(proposalID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decisions": decisions,
		"count":     len(decisions),
	})
}

func (s *Server) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	licenses := s.core.Licenses(activeOnly)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"licenses": licenses,
		"count":    len(licenses),
	})
}

func (s *Server) handleListSuccessors(w http.ResponseWriter, r *http.Request) {
	successors := s.core.Successors()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"successors": successors,
		"count":      len(successors),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.core.TreasuryTransactions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (s *Server) handleGuardian(w http.ResponseWriter, r *http.Request) {
	state := s.core.GuardianState()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"founder_active":     state.FounderActive,
		"last_heartbeat":     state.LastHeartbeat,
		"heartbeat_interval": state.HeartbeatInterval.String(),
		"council":            s.core.CouncilMembers(),
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the dashboard frontends.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
