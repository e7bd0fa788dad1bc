// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ─── Stake Types ────────────────────────────────────────────────────────────

// Stake is an account's locked balance backing its voting power.
// Amount 0 is the observable contract for "fully unstaked" — entries are
// logically cleared, not physically deleted.
type Stake struct {
	Account  string    `json:"account"`
	Amount   float64   `json:"amount"`
	StakedAt time.Time `json:"staked_at"`
}

// ─── Proposal Types ─────────────────────────────────────────────────────────

// ProposalStatus tracks a proposal through its lifecycle.
type ProposalStatus int

const (
	PropActive ProposalStatus = iota
	PropPassed
	PropRejected
	PropExecuted
)

// String returns the status name.
func (s ProposalStatus) String() string {
	switch s {
	case PropActive:
		return "ACTIVE"
	case PropPassed:
		return "PASSED"
	case PropRejected:
		return "REJECTED"
	case PropExecuted:
		return "EXECUTED"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the status as its name.
func (s ProposalStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON parses a status name.
func (s *ProposalStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, ok := ParseStatus(name)
	if !ok {
		return fmt.Errorf("unknown proposal status %q", name)
	}
	*s = parsed
	return nil
}

// ParseStatus resolves a status name to its enum.
func ParseStatus(name string) (ProposalStatus, bool) {
	for _, s := range []ProposalStatus{PropActive, PropPassed, PropRejected, PropExecuted} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// ProposalCategory classifies what a proposal is about.
type ProposalCategory int

const (
	CatGeneral ProposalCategory = iota
	CatTreasury
	CatLicensing
	CatSuccession
	CatEmergency
)

// String returns the category name.
func (c ProposalCategory) String() string {
	switch c {
	case CatGeneral:
		return "GENERAL"
	case CatTreasury:
		return "TREASURY"
	case CatLicensing:
		return "LICENSING"
	case CatSuccession:
		return "SUCCESSION"
	case CatEmergency:
		return "EMERGENCY"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the category as its name.
func (c ProposalCategory) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON parses a category name.
func (c *ProposalCategory) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, ok := ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown proposal category %q", name)
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category name to its enum.
func ParseCategory(name string) (ProposalCategory, bool) {
	for _, c := range []ProposalCategory{CatGeneral, CatTreasury, CatLicensing, CatSuccession, CatEmergency} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Proposal is a funding or governance proposal under stake-weighted vote.
type Proposal struct {
	ID           uint64           `json:"id"`
	Proposer     string           `json:"proposer"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     ProposalCategory `json:"category"`
	Amount       float64          `json:"amount"`
	Recipient    string           `json:"recipient"`
	CreatedAt    time.Time        `json:"created_at"`
	VotingEndsAt time.Time        `json:"voting_ends_at"`
	ForVotes     float64          `json:"for_votes"`
	AgainstVotes float64          `json:"against_votes"`
	Executed     bool             `json:"executed"`
	AIApproved   bool             `json:"ai_approved"`
	AIConfidence int              `json:"ai_confidence"` // 0–100
	Status       ProposalStatus   `json:"status"`
}

// Turnout returns the total weight cast on the proposal.
func (p *Proposal) Turnout() float64 { return p.ForVotes + p.AgainstVotes }

// AIDecision is one append-only entry in the oracle decision log.
// Historical entries are never mutated.
type AIDecision struct {
	ID         uint64    `json:"id"`
	ProposalID uint64    `json:"proposal_id"`
	Approved   bool      `json:"approved"`
	Confidence int       `json:"confidence"` // 0–100
	Reasoning  string    `json:"reasoning"`
	Timestamp  time.Time `json:"timestamp"`
}

// ─── Guardian Types ─────────────────────────────────────────────────────────

// AuthorityMode gates what a proposal needs before it may execute.
type AuthorityMode int

const (
	// FounderMode: quorum + majority suffice.
	FounderMode AuthorityMode = iota
	// OracleMode: additionally requires an approving AI decision.
	OracleMode
)

// String returns the mode name.
func (m AuthorityMode) String() string {
	switch m {
	case FounderMode:
		return "FOUNDER"
	case OracleMode:
		return "ORACLE"
	default:
		return "UNKNOWN"
	}
}

// GuardianState is a snapshot of the founder-liveness monitor.
// FounderActive only transitions to false when CheckFounderStatus runs —
// the snapshot can be stale between evaluations by design.
type GuardianState struct {
	FounderActive     bool          `json:"founder_active"`
	LastHeartbeat     time.Time     `json:"last_heartbeat"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
}

// ─── Treasury Types ─────────────────────────────────────────────────────────

// Transaction is a proposed treasury disbursement awaiting confirmations.
type Transaction struct {
	ID            string    `json:"id"`
	To            string    `json:"to"`
	Amount        float64   `json:"amount"`
	ProposedBy    string    `json:"proposed_by"`
	ProposedAt    time.Time `json:"proposed_at"`
	Confirmations []string  `json:"confirmations"`
	Executed      bool      `json:"executed"`
}

// ─── License Types ──────────────────────────────────────────────────────────

// License is an issued IP license accruing royalties.
type License struct {
	ID                 uint64    `json:"id"`
	IPName             string    `json:"ip_name"`
	IPType             string    `json:"ip_type"`
	Licensee           string    `json:"licensee"`
	RoyaltyBps         int       `json:"royalty_bps"` // 0–10000
	IssuedAt           time.Time `json:"issued_at"`
	ExpiresAt          time.Time `json:"expires_at"`
	Active             bool      `json:"active"`
	TotalRoyaltiesPaid float64   `json:"total_royalties_paid"`
}

// ─── Successor Types ────────────────────────────────────────────────────────

// Successor is a certification candidate in the succession registry.
type Successor struct {
	ID             uint64 `json:"id"`
	Addr           string `json:"addr"`
	Specialization string `json:"specialization"`
	ReadinessScore int    `json:"readiness_score"` // 0–100
	Certified      bool   `json:"certified"`
}

// ─── Utilities ──────────────────────────────────────────────────────────────

// FormatAmount renders a token amount for logs and CLI output.
func FormatAmount(a float64) string {
	return fmt.Sprintf("%.4f", a)
}
