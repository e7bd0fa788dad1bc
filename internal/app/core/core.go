// Package core applies governance commands against one authoritative state.
//
// The DAO is modeled as a single-writer, totally-ordered command log: every
// mutating operation is applied atomically and sequentially under one lock,
// so concurrent submissions are resolved by first-applied-wins. Reads are
// pure snapshots over the current state. The core also write-throughs
// proposal, decision, and guardian projections to SQLite for the external
// dashboards — projection failures are logged, never surfaced to the
// command (the in-memory ledgers stay authoritative).
package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/visionquantech/youdao/internal/domain"
	"github.com/visionquantech/youdao/internal/infra/governance"
	"github.com/visionquantech/youdao/internal/infra/guardian"
	"github.com/visionquantech/youdao/internal/infra/license"
	"github.com/visionquantech/youdao/internal/infra/observability"
	"github.com/visionquantech/youdao/internal/infra/sqlite"
	"github.com/visionquantech/youdao/internal/infra/stake"
	"github.com/visionquantech/youdao/internal/infra/succession"
	"github.com/visionquantech/youdao/internal/infra/treasury"
)

// Config wires the identities and tunables of a DAO instance.
type Config struct {
	Founder           string
	Oracle            string
	TreasurySigners   []string
	TreasuryThreshold int
	VotingPeriod      time.Duration
	QuorumPct         float64
	ExecutionDelay    time.Duration
	HeartbeatInterval time.Duration
}

// DefaultConfig returns the single-founder bootstrap configuration.
func DefaultConfig(founder, oracle string) Config {
	return Config{
		Founder:           founder,
		Oracle:            oracle,
		TreasurySigners:   []string{founder},
		TreasuryThreshold: 1,
		VotingPeriod:      governance.DefaultVotingPeriod,
		QuorumPct:         governance.DefaultQuorumPct,
		HeartbeatInterval: guardian.DefaultHeartbeatInterval,
	}
}

// Core owns the five ledgers and serializes every command.
type Core struct {
	mu         sync.Mutex // total order over mutating commands
	stakes     *stake.Ledger
	guardian   *guardian.Monitor
	treasury   *treasury.Gate
	licenses   *license.Ledger
	successors *succession.Registry
	engine     *governance.Engine

	db  *sqlite.DB // optional projection store
	log zerolog.Logger
}

// New assembles a DAO core. db may be nil (no projections persisted).
func New(cfg Config, db *sqlite.DB, logger zerolog.Logger) *Core {
	signers := cfg.TreasurySigners
	if len(signers) == 0 {
		signers = []string{cfg.Founder}
	}

	c := &Core{
		stakes: stake.NewLedger(),
		guardian: guardian.NewMonitor(guardian.Config{
			Founder:           cfg.Founder,
			HeartbeatInterval: cfg.HeartbeatInterval,
		}),
		treasury:   treasury.NewGate(treasury.Config{Signers: signers, Threshold: cfg.TreasuryThreshold}),
		db:         db,
		log:        logger,
	}
	c.licenses = license.NewLedger(cfg.Founder, c.treasury)
	c.successors = succession.NewRegistry(cfg.Founder)
	c.engine = governance.NewEngine(governance.EngineConfig{
		Oracle:         cfg.Oracle,
		VotingPeriod:   cfg.VotingPeriod,
		QuorumPct:      cfg.QuorumPct,
		ExecutionDelay: cfg.ExecutionDelay,
	}, c.stakes, c.guardian, c.treasury)
	return c
}

// SetClock pins every component to the same clock (tests only).
func (c *Core) SetClock(now func() time.Time) {
	c.stakes.SetClock(now)
	c.guardian.SetClock(now)
	c.treasury.SetClock(now)
	c.licenses.SetClock(now)
	c.engine.SetClock(now)
}

// ─── Command Helpers ────────────────────────────────────────────────────────

// done records the outcome of a command: metrics, structured log, and the
// error passthrough. Every command returns through here.
func (c *Core) done(command string, err error, fields map[string]interface{}) error {
	ev := c.log.Info()
	if err != nil {
		observability.CommandsRejected.WithLabelValues(command, string(domain.Classify(err))).Inc()
		ev = c.log.Warn().Err(err)
	} else {
		observability.CommandsApplied.WithLabelValues(command).Inc()
	}
	ev.Str("command", command)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Send()
	return err
}

// syncGauges refreshes the state gauges after a successful command.
func (c *Core) syncGauges() {
	observability.TotalStaked.Set(c.stakes.TotalStaked())
	observability.TreasuryBalance.Set(c.treasury.Balance())
	if c.guardian.State().FounderActive {
		observability.FounderActive.Set(1)
	} else {
		observability.FounderActive.Set(0)
	}
}

// projectProposal refreshes a proposal snapshot in the projection store.
func (c *Core) projectProposal(id uint64) {
	if c.db == nil {
		return
	}
	p, err := c.engine.Get(id)
	if err != nil {
		return
	}
	if err := c.db.UpsertProposal(p); err != nil {
		c.log.Warn().Err(err).Uint64("proposal_id", id).Msg("proposal projection write failed")
	}
}

// projectGuardian refreshes the guardian flag in the projection store.
func (c *Core) projectGuardian() {
	if c.db == nil {
		return
	}
	if err := c.db.UpsertGuardianState(c.guardian.State()); err != nil {
		c.log.Warn().Err(err).Msg("guardian projection write failed")
	}
}

// ─── Stake Commands ─────────────────────────────────────────────────────────

// Stake deposits stake for an account.
func (c *Core) Stake(account string, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.stakes.Stake(account, amount)
	if err == nil {
		c.syncGauges()
	}
	return c.done("stake", err, map[string]interface{}{"account": account, "amount": amount})
}

// Unstake withdraws stake for an account.
func (c *Core) Unstake(account string, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.stakes.Unstake(account, amount)
	if err == nil {
		c.syncGauges()
	}
	return c.done("unstake", err, map[string]interface{}{"account": account, "amount": amount})
}

// ─── Governance Commands ────────────────────────────────────────────────────

// CreateProposal opens a proposal.
func (c *Core) CreateProposal(proposer, title, description string, amount float64, recipient string, category domain.ProposalCategory) (*domain.Proposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.engine.CreateProposal(proposer, title, description, amount, recipient, category)
	fields := map[string]interface{}{"proposer": proposer, "title": title}
	if err == nil {
		fields["proposal_id"] = p.ID
		observability.ProposalsCreated.Inc()
		c.projectProposal(p.ID)
	}
	return p, c.done("create_proposal", err, fields)
}

// Vote casts a stake-weighted vote.
func (c *Core) Vote(account string, proposalID uint64, support bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.engine.Vote(account, proposalID, support)
	if err == nil {
		observability.VotesCast.Inc()
		c.projectProposal(proposalID)
	}
	return c.done("vote", err, map[string]interface{}{"account": account, "proposal_id": proposalID, "support": support})
}

// RecordAIDecision appends an oracle verdict.
func (c *Core) RecordAIDecision(caller string, proposalID uint64, approved bool, confidence int, reasoning string) (*domain.AIDecision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.engine.RecordAIDecision(caller, proposalID, approved, confidence, reasoning)
	if err == nil {
		verdict := "rejected"
		if approved {
			verdict = "approved"
		}
		observability.AIDecisions.WithLabelValues(verdict).Inc()
		if c.db != nil {
			if dbErr := c.db.InsertDecision(*d); dbErr != nil {
				c.log.Warn().Err(dbErr).Msg("decision projection write failed")
			}
		}
		c.projectProposal(proposalID)
	}
	return d, c.done("record_ai_decision", err, map[string]interface{}{"proposal_id": proposalID, "approved": approved})
}

// Execute finalizes a passed proposal and disburses its amount.
func (c *Core) Execute(caller string, proposalID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.engine.Execute(caller, proposalID)
	if err == nil {
		observability.ProposalsExecuted.Inc()
		c.syncGauges()
		c.projectProposal(proposalID)
	}
	return c.done("execute", err, map[string]interface{}{"caller": caller, "proposal_id": proposalID})
}

// ResolveExpired finalizes the status of proposals past their voting window.
func (c *Core) ResolveExpired() []domain.Proposal {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.engine.ResolveExpired()
	for _, p := range changed {
		c.projectProposal(p.ID)
	}
	if len(changed) > 0 {
		c.log.Info().Int("count", len(changed)).Msg("resolved expired proposals")
	}
	return changed
}

// ─── Guardian Commands ──────────────────────────────────────────────────────

// Heartbeat records founder liveness.
func (c *Core) Heartbeat(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.guardian.Heartbeat(caller)
	if err == nil {
		observability.Heartbeats.Inc()
		c.syncGauges()
		c.projectGuardian()
	}
	return c.done("heartbeat", err, nil)
}

// CheckFounderStatus re-evaluates founder liveness.
func (c *Core) CheckFounderStatus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.guardian.CheckFounderStatus()
	c.syncGauges()
	c.projectGuardian()
	c.done("check_founder_status", nil, map[string]interface{}{"founder_active": active})
	return active
}

// AddCouncilMember grants emergency-governance rights.
func (c *Core) AddCouncilMember(caller, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.guardian.AddCouncilMember(caller, member)
	return c.done("add_council_member", err, map[string]interface{}{"member": member})
}

// ─── License Commands ───────────────────────────────────────────────────────

// IssueLicense creates an IP license.
func (c *Core) IssueLicense(caller, ipName, ipType, licensee string, royaltyBps int, duration time.Duration) (*domain.License, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lic, err := c.licenses.IssueLicense(caller, ipName, ipType, licensee, royaltyBps, duration)
	fields := map[string]interface{}{"ip_name": ipName, "licensee": licensee}
	if err == nil {
		fields["license_id"] = lic.ID
	}
	return lic, c.done("issue_license", err, fields)
}

// PayRoyalty accrues a royalty payment and forwards it to the treasury.
func (c *Core) PayRoyalty(licensee string, licenseID uint64, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.licenses.PayRoyalty(licensee, licenseID, amount)
	if err == nil {
		observability.RoyaltiesPaid.Add(amount)
		c.syncGauges()
		if c.db != nil {
			if dbErr := c.db.InsertRoyaltyPayment(licenseID, licensee, amount, time.Now()); dbErr != nil {
				c.log.Warn().Err(dbErr).Msg("royalty projection write failed")
			}
		}
	}
	return c.done("pay_royalty", err, map[string]interface{}{"license_id": licenseID, "amount": amount})
}

// ─── Succession Commands ────────────────────────────────────────────────────

// AddSuccessor registers a certification candidate.
func (c *Core) AddSuccessor(caller, addr, specialization string) (*domain.Successor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.successors.AddSuccessor(caller, addr, specialization)
	fields := map[string]interface{}{"addr": addr}
	if err == nil {
		fields["successor_id"] = s.ID
	}
	return s, c.done("add_successor", err, fields)
}

// UpdateSuccessorReadiness sets a candidate's readiness score.
func (c *Core) UpdateSuccessorReadiness(caller string, successorID uint64, score int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.successors.UpdateReadiness(caller, successorID, score)
	return c.done("update_successor_readiness", err, map[string]interface{}{"successor_id": successorID, "score": score})
}

// ─── Treasury Commands ──────────────────────────────────────────────────────

// Deposit credits the treasury.
func (c *Core) Deposit(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.treasury.Deposit(amount)
	c.syncGauges()
	c.done("deposit", nil, map[string]interface{}{"amount": amount})
}

// ProposeTransaction records a pending disbursement.
func (c *Core) ProposeTransaction(signer, to string, amount float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.treasury.ProposeTransaction(signer, to, amount)
	return id, c.done("propose_transaction", err, map[string]interface{}{"to": to, "amount": amount})
}

// ConfirmTransaction adds a signer confirmation.
func (c *Core) ConfirmTransaction(signer, txID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.treasury.ConfirmTransaction(signer, txID)
	return c.done("confirm_transaction", err, map[string]interface{}{"tx_id": txID})
}

// ExecuteTransaction performs a confirmed disbursement.
func (c *Core) ExecuteTransaction(txID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.treasury.ExecuteTransaction(txID)
	if err == nil {
		c.syncGauges()
	}
	return c.done("execute_transaction", err, map[string]interface{}{"tx_id": txID})
}

// ─── Read Projections ───────────────────────────────────────────────────────

// Proposal returns one proposal.
func (c *Core) Proposal(id uint64) (domain.Proposal, error) { return c.engine.Get(id) }

// Proposals lists proposals, optionally by category.
func (c *Core) Proposals(category *domain.ProposalCategory) []domain.Proposal {
	return c.engine.List(category)
}

// Decisions lists the oracle decision log, optionally by proposal.
func (c *Core) Decisions(proposalID *uint64) []domain.AIDecision {
	return c.engine.Decisions(proposalID)
}

// Licenses lists licenses, optionally active-only.
func (c *Core) Licenses(activeOnly bool) []domain.License { return c.licenses.List(activeOnly) }

// License returns one license.
func (c *Core) License(id uint64) (domain.License, error) { return c.licenses.Get(id) }

// Successors lists the succession registry.
func (c *Core) Successors() []domain.Successor { return c.successors.List() }

// TreasuryTransactions lists treasury transactions in proposal order.
func (c *Core) TreasuryTransactions() []domain.Transaction { return c.treasury.Transactions() }

// TreasuryBalance returns the current treasury balance.
func (c *Core) TreasuryBalance() float64 { return c.treasury.Balance() }

// StakeOf returns an account's stake entry.
func (c *Core) StakeOf(account string) domain.Stake { return c.stakes.Get(account) }

// VotingPower returns an account's derived voting weight.
func (c *Core) VotingPower(account string) float64 { return c.stakes.VotingPower(account) }

// GuardianState returns the liveness snapshot.
func (c *Core) GuardianState() domain.GuardianState { return c.guardian.State() }

// CouncilMembers lists the emergency-governance council.
func (c *Core) CouncilMembers() []string { return c.guardian.CouncilMembers() }

// Stats is the aggregate dashboard snapshot.
type Stats struct {
	governance.Stats
	TotalStaked         float64 `json:"total_staked"`
	Stakers             int     `json:"stakers"`
	TreasuryBalance     float64 `json:"treasury_balance"`
	TotalLicenses       int     `json:"total_licenses"`
	ActiveLicenses      int     `json:"active_licenses"`
	TotalRoyalties      float64 `json:"total_royalties"`
	TotalSuccessors     int     `json:"total_successors"`
	CertifiedSuccessors int     `json:"certified_successors"`
	FounderActive       bool    `json:"founder_active"`
	AuthorityMode       string  `json:"authority_mode"`
}

// Snapshot computes the aggregate stats across all ledgers.
func (c *Core) Snapshot() Stats {
	return Stats{
		Stats:               c.engine.Snapshot(),
		TotalStaked:         c.stakes.TotalStaked(),
		Stakers:             c.stakes.StakerCount(),
		TreasuryBalance:     c.treasury.Balance(),
		TotalLicenses:       c.licenses.Count(),
		ActiveLicenses:      len(c.licenses.List(true)),
		TotalRoyalties:      c.licenses.TotalRoyalties(),
		TotalSuccessors:     len(c.successors.List()),
		CertifiedSuccessors: c.successors.CertifiedCount(),
		FounderActive:       c.guardian.State().FounderActive,
		AuthorityMode:       c.guardian.Mode().String(),
	}
}
