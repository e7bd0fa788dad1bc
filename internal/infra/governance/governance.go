// Package governance implements the proposal lifecycle: creation, stake-
// weighted voting, quorum, the AI-oracle decision log, and execution.
//
// The engine is the orchestrator of the DAO core. It derives voting weight
// from the stake ledger, consults the guardian for the authority mode, and
// drives the treasury on execution. Proposals move
// Active → {Passed|Rejected} → Executed; every failed command leaves state
// unchanged.
package governance

import (
	"fmt"
	"sync"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

// ─── Constants ──────────────────────────────────────────────────────────────

const (
	// DefaultVotingPeriod is how long a proposal accepts votes.
	DefaultVotingPeriod = 7 * 24 * time.Hour

	// DefaultQuorumPct is the fraction of total stake that must vote.
	DefaultQuorumPct = 0.30

	// MaxConfidence bounds the oracle confidence scale.
	MaxConfidence = 100
)

// ─── Configuration ──────────────────────────────────────────────────────────

// EngineConfig configures the proposal engine.
type EngineConfig struct {
	Oracle         string        // designated AI oracle identity
	VotingPeriod   time.Duration // voting window per proposal
	QuorumPct      float64       // turnout fraction of total stake
	ExecutionDelay time.Duration // timelock after voting closes
}

// DefaultEngineConfig returns production defaults for the given oracle.
// ExecutionDelay is zero in the single-founder bootstrap.
func DefaultEngineConfig(oracle string) EngineConfig {
	return EngineConfig{
		Oracle:       oracle,
		VotingPeriod: DefaultVotingPeriod,
		QuorumPct:    DefaultQuorumPct,
	}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

// Engine manages proposals, votes, and the oracle decision log.
// Thread-safe via RWMutex.
type Engine struct {
	mu        sync.RWMutex
	config    EngineConfig
	power     domain.PowerSource
	authority domain.AuthoritySource
	treasury  domain.Disburser

	proposals      map[uint64]*domain.Proposal
	voted          map[uint64]map[string]struct{} // proposalID → voter set
	decisions      []domain.AIDecision            // append-only
	nextID         uint64
	nextDecisionID uint64

	// Injectable clock for testing.
	now func() time.Time
}

// NewEngine creates a proposal engine wired to its three dependencies.
// treasury may be nil when no disbursement backend exists (dry governance).
func NewEngine(cfg EngineConfig, power domain.PowerSource, authority domain.AuthoritySource, treasury domain.Disburser) *Engine {
	if cfg.VotingPeriod <= 0 {
		cfg.VotingPeriod = DefaultVotingPeriod
	}
	if cfg.QuorumPct <= 0 {
		cfg.QuorumPct = DefaultQuorumPct
	}
	return &Engine{
		config:         cfg,
		power:          power,
		authority:      authority,
		treasury:       treasury,
		proposals:      make(map[uint64]*domain.Proposal),
		voted:          make(map[uint64]map[string]struct{}),
		nextID:         1,
		nextDecisionID: 1,
		now:            time.Now,
	}
}

// SetClock overrides the engine clock (tests only).
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// ─── Proposal Lifecycle ─────────────────────────────────────────────────────

// CreateProposal opens a new proposal. The proposer must hold nonzero stake.
// IDs are monotonically increasing from 1.
func (e *Engine) CreateProposal(proposer, title, description string, amount float64, recipient string, category domain.ProposalCategory) (*domain.Proposal, error) {
	if e.power.VotingPower(proposer) == 0 {
		return nil, domain.ErrNotStaker
	}
	if title == "" {
		return nil, fmt.Errorf("create proposal: empty title")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	p := &domain.Proposal{
		ID:           e.nextID,
		Proposer:     proposer,
		Title:        title,
		Description:  description,
		Category:     category,
		Amount:       amount,
		Recipient:    recipient,
		CreatedAt:    now,
		VotingEndsAt: now.Add(e.config.VotingPeriod),
		Status:       domain.PropActive,
	}
	e.proposals[p.ID] = p
	e.voted[p.ID] = make(map[string]struct{})
	e.nextID++

	out := *p
	return &out, nil
}

// Vote casts the account's full voting power for or against a proposal.
// One vote per account per proposal; the vote record persists for the
// proposal's lifetime and is never removed.
func (e *Engine) Vote(account string, proposalID uint64, support bool) error {
	weight := e.power.VotingPower(account)
	if weight == 0 {
		return domain.ErrNotStaker
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.proposals[proposalID]
	if !ok {
		return domain.ErrProposalNotFound
	}
	if _, dup := e.voted[proposalID][account]; dup {
		return domain.ErrAlreadyVoted
	}
	if e.now().After(p.VotingEndsAt) {
		return domain.ErrVotingClosed
	}

	if support {
		p.ForVotes += weight
	} else {
		p.AgainstVotes += weight
	}
	e.voted[proposalID][account] = struct{}{}
	return nil
}

// RecordAIDecision appends the oracle's verdict to the decision log and
// stamps it onto the proposal. Only the configured oracle may call this.
// Confidence is clamped to [0, MaxConfidence].
func (e *Engine) RecordAIDecision(caller string, proposalID uint64, approved bool, confidence int, reasoning string) (*domain.AIDecision, error) {
	if caller != e.config.Oracle {
		return nil, domain.ErrNotOracle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.proposals[proposalID]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}

	d := domain.AIDecision{
		ID:         e.nextDecisionID,
		ProposalID: proposalID,
		Approved:   approved,
		Confidence: confidence,
		Reasoning:  reasoning,
		Timestamp:  e.now(),
	}
	e.decisions = append(e.decisions, d)
	e.nextDecisionID++

	p.AIApproved = approved
	p.AIConfidence = confidence
	return &d, nil
}

// Execute finalizes a passed proposal: quorum and majority are checked, the
// authority mode is consulted, and the amount is disbursed through the
// treasury. Fails fast — no gate ever waits. A tie rejects.
func (e *Engine) Execute(caller string, proposalID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.proposals[proposalID]
	if !ok {
		return domain.ErrProposalNotFound
	}
	if p.Executed {
		return domain.ErrAlreadyExecuted
	}

	now := e.now()
	if !now.After(p.VotingEndsAt) {
		return domain.ErrVotingStillOpen
	}
	if !now.After(p.VotingEndsAt.Add(e.config.ExecutionDelay)) {
		return domain.ErrTimelockActive
	}
	if p.Turnout() < e.config.QuorumPct*e.power.TotalStaked() {
		return domain.ErrQuorumNotMet
	}
	if p.ForVotes <= p.AgainstVotes {
		return domain.ErrProposalRejected
	}
	if e.authority.Mode() == domain.OracleMode && !p.AIApproved {
		return domain.ErrOracleApprovalRequired
	}

	if p.Amount > 0 && e.treasury != nil {
		if err := e.treasury.Disburse(p.Recipient, p.Amount); err != nil {
			return fmt.Errorf("execute proposal %d: %w", proposalID, err)
		}
	}

	p.Executed = true
	p.Status = domain.PropExecuted
	return nil
}

// ResolveExpired finalizes the status of proposals whose voting window has
// closed: Passed when quorum and majority were reached, Rejected otherwise.
// Pure bookkeeping for the dashboards — execution still goes through
// Execute. Returns the proposals whose status changed.
func (e *Engine) ResolveExpired() []domain.Proposal {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var changed []domain.Proposal
	for id := uint64(1); id < e.nextID; id++ {
		p := e.proposals[id]
		if p.Status != domain.PropActive || !now.After(p.VotingEndsAt) {
			continue
		}
		if p.Turnout() >= e.config.QuorumPct*e.power.TotalStaked() && p.ForVotes > p.AgainstVotes {
			p.Status = domain.PropPassed
		} else {
			p.Status = domain.PropRejected
		}
		changed = append(changed, *p)
	}
	return changed
}

// ─── Projections ────────────────────────────────────────────────────────────

// Get returns a copy of a proposal.
func (e *Engine) Get(proposalID uint64) (domain.Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.proposals[proposalID]
	if !ok {
		return domain.Proposal{}, domain.ErrProposalNotFound
	}
	return *p, nil
}

// HasVoted reports whether the account already voted on the proposal.
func (e *Engine) HasVoted(proposalID uint64, account string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.voted[proposalID][account]
	return ok
}

// List returns proposals in id order, optionally filtered by category.
func (e *Engine) List(category *domain.ProposalCategory) []domain.Proposal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Proposal, 0, len(e.proposals))
	for id := uint64(1); id < e.nextID; id++ {
		p := e.proposals[id]
		if category != nil && p.Category != *category {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// Decisions returns the append-only decision log, optionally filtered by
// proposal.
func (e *Engine) Decisions(proposalID *uint64) []domain.AIDecision {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.AIDecision, 0, len(e.decisions))
	for _, d := range e.decisions {
		if proposalID != nil && d.ProposalID != *proposalID {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Stats is an aggregate snapshot for the dashboards.
type Stats struct {
	TotalProposals    int     `json:"total_proposals"`
	ActiveProposals   int     `json:"active_proposals"`
	ExecutedProposals int     `json:"executed_proposals"`
	TotalVotesCast    int     `json:"total_votes_cast"`
	TotalDecisions    int     `json:"total_decisions"`
	ApprovalRate      float64 `json:"approval_rate"`  // fraction of approving decisions
	AvgConfidence     float64 `json:"avg_confidence"` // mean oracle confidence
}

// Snapshot computes the aggregate stats.
func (e *Engine) Snapshot() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{TotalProposals: len(e.proposals), TotalDecisions: len(e.decisions)}
	for _, p := range e.proposals {
		switch p.Status {
		case domain.PropActive:
			s.ActiveProposals++
		case domain.PropExecuted:
			s.ExecutedProposals++
		}
	}
	for _, voters := range e.voted {
		s.TotalVotesCast += len(voters)
	}
	if len(e.decisions) > 0 {
		approved := 0
		confidence := 0
		for _, d := range e.decisions {
			if d.Approved {
				approved++
			}
			confidence += d.Confidence
		}
		s.ApprovalRate = float64(approved) / float64(len(e.decisions))
		s.AvgConfidence = float64(confidence) / float64(len(e.decisions))
	}
	return s
}

// ProposalCount returns the number of proposals ever created.
func (e *Engine) ProposalCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.proposals)
}
