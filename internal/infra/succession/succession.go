// Package succession implements the successor-certification registry.
//
// Candidates are founder-registered and become certified the moment their
// readiness score crosses the fixed threshold. Certification is derived from
// the score on every update, so the two can never disagree.
package succession

import (
	"sync"

	"github.com/visionquantech/youdao/internal/domain"
)

// CertificationThreshold is the readiness score at which a successor is
// considered certified.
const CertificationThreshold = 80

// Registry tracks succession candidates.
// Thread-safe via RWMutex.
type Registry struct {
	mu         sync.RWMutex
	founder    string
	successors map[uint64]*domain.Successor
	nextID     uint64
}

// NewRegistry creates an empty successor registry.
func NewRegistry(founder string) *Registry {
	return &Registry{
		founder:    founder,
		successors: make(map[uint64]*domain.Successor),
		nextID:     1,
	}
}

// ─── Commands ───────────────────────────────────────────────────────────────

// AddSuccessor registers a candidate at readiness 0. Founder-only.
func (r *Registry) AddSuccessor(caller, addr, specialization string) (*domain.Successor, error) {
	if caller != r.founder {
		return nil, domain.ErrOnlyFounder
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := &domain.Successor{
		ID:             r.nextID,
		Addr:           addr,
		Specialization: specialization,
	}
	r.successors[s.ID] = s
	r.nextID++
	out := *s
	return &out, nil
}

// UpdateReadiness sets a candidate's readiness score (clamped to [0,100])
// and re-derives certification. Founder-only.
func (r *Registry) UpdateReadiness(caller string, successorID uint64, score int) error {
	if caller != r.founder {
		return domain.ErrOnlyFounder
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.successors[successorID]
	if !ok {
		return domain.ErrSuccessorNotFound
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	s.ReadinessScore = score
	s.Certified = score >= CertificationThreshold
	return nil
}

// ─── Projections ────────────────────────────────────────────────────────────

// Get returns a copy of a successor.
func (r *Registry) Get(successorID uint64) (domain.Successor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.successors[successorID]
	if !ok {
		return domain.Successor{}, domain.ErrSuccessorNotFound
	}
	return *s, nil
}

// List returns successors in registration order.
func (r *Registry) List() []domain.Successor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Successor, 0, len(r.successors))
	for id := uint64(1); id < r.nextID; id++ {
		out = append(out, *r.successors[id])
	}
	return out
}

// CertifiedCount returns how many successors are currently certified.
func (r *Registry) CertifiedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.successors {
		if s.Certified {
			n++
		}
	}
	return n
}
