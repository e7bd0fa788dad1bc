package sqlite

import (
	"database/sql"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

// ─── Proposal Cache Operations ──────────────────────────────────────────────

// UpsertProposal writes a proposal snapshot.
func (db *DB) UpsertProposal(p domain.Proposal) error {
	executed := 0
	if p.Executed {
		executed = 1
	}
	approved := 0
	if p.AIApproved {
		approved = 1
	}
	_, err := db.db.Exec(`
		INSERT INTO proposals_cache (proposal_id, proposer, title, description, category, amount, recipient,
			created_at, voting_ends_at, for_votes, against_votes, executed, ai_approved, ai_confidence, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(proposal_id) DO UPDATE SET
			for_votes     = excluded.for_votes,
			against_votes = excluded.against_votes,
			executed      = excluded.executed,
			ai_approved   = excluded.ai_approved,
			ai_confidence = excluded.ai_confidence,
			status        = excluded.status,
			updated_at    = datetime('now')
	`, p.ID, p.Proposer, p.Title, p.Description, p.Category.String(), p.Amount, p.Recipient,
		p.CreatedAt.Format(time.RFC3339), p.VotingEndsAt.Format(time.RFC3339),
		p.ForVotes, p.AgainstVotes, executed, approved, p.AIConfidence, p.Status.String())
	return err
}

// ProposalCount returns the number of cached proposals, optionally by status.
func (db *DB) ProposalCount(status string) (int, error) {
	var count int
	var err error
	if status == "" {
		err = db.db.QueryRow(`SELECT COUNT(*) FROM proposals_cache`).Scan(&count)
	} else {
		err = db.db.QueryRow(`SELECT COUNT(*) FROM proposals_cache WHERE status = ?`, status).Scan(&count)
	}
	return count, err
}

// ─── Decision Log Operations ────────────────────────────────────────────────

// InsertDecision appends an oracle decision. The log is append-only —
// existing rows are never touched.
func (db *DB) InsertDecision(d domain.AIDecision) error {
	approved := 0
	if d.Approved {
		approved = 1
	}
	_, err := db.db.Exec(`
		INSERT INTO decisions (id, proposal_id, approved, confidence, reasoning, decided_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.ProposalID, approved, d.Confidence, d.Reasoning, d.Timestamp.Format(time.RFC3339))
	return err
}

// ListDecisions returns decisions, newest first, optionally filtered by
// proposal. limit ≤ 0 means no limit.
func (db *DB) ListDecisions(proposalID *uint64, limit int) ([]domain.AIDecision, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows *sql.Rows
	var err error
	if proposalID != nil {
		rows, err = db.db.Query(`
			SELECT id, proposal_id, approved, confidence, reasoning, decided_at
			FROM decisions WHERE proposal_id = ? ORDER BY id DESC LIMIT ?
		`, *proposalID, limit)
	} else {
		rows, err = db.db.Query(`
			SELECT id, proposal_id, approved, confidence, reasoning, decided_at
			FROM decisions ORDER BY id DESC LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AIDecision
	for rows.Next() {
		var d domain.AIDecision
		var approved int
		var decidedStr string
		if err := rows.Scan(&d.ID, &d.ProposalID, &approved, &d.Confidence, &d.Reasoning, &decidedStr); err != nil {
			return nil, err
		}
		d.Approved = approved == 1
		d.Timestamp, _ = time.Parse(time.RFC3339, decidedStr)
		out = append(out, d)
	}
	return out, rows.Err()
}

// DecisionStats returns the decision count, approval rate, and average
// confidence for the dashboard stats endpoint.
func (db *DB) DecisionStats() (count int, approvalRate, avgConfidence float64, err error) {
	var approved sql.NullFloat64
	var confidence sql.NullFloat64
	err = db.db.QueryRow(`
		SELECT COUNT(*), AVG(approved), AVG(confidence) FROM decisions
	`).Scan(&count, &approved, &confidence)
	if err != nil {
		return
	}
	approvalRate = approved.Float64
	avgConfidence = confidence.Float64
	return
}

// ─── Royalty Log Operations ─────────────────────────────────────────────────

// InsertRoyaltyPayment logs a royalty payment.
func (db *DB) InsertRoyaltyPayment(licenseID uint64, licensee string, amount float64, paidAt time.Time) error {
	_, err := db.db.Exec(`
		INSERT INTO royalty_payments (license_id, licensee, amount, paid_at)
		VALUES (?, ?, ?, ?)
	`, licenseID, licensee, amount, paidAt.Format(time.RFC3339))
	return err
}

// RoyaltyTotal returns the cumulative logged royalties for a license.
func (db *DB) RoyaltyTotal(licenseID uint64) (float64, error) {
	var total sql.NullFloat64
	err := db.db.QueryRow(`
		SELECT SUM(amount) FROM royalty_payments WHERE license_id = ?
	`, licenseID).Scan(&total)
	return total.Float64, err
}

// ─── Guardian State Operations ──────────────────────────────────────────────

// UpsertGuardianState writes the single-row guardian flag.
func (db *DB) UpsertGuardianState(s domain.GuardianState) error {
	active := 0
	if s.FounderActive {
		active = 1
	}
	_, err := db.db.Exec(`
		INSERT INTO guardian_state (id, founder_active, last_heartbeat, updated_at)
		VALUES (1, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			founder_active = excluded.founder_active,
			last_heartbeat = excluded.last_heartbeat,
			updated_at     = datetime('now')
	`, active, s.LastHeartbeat.Format(time.RFC3339))
	return err
}

// GuardianActive reads the persisted founder flag. Defaults to true when no
// state has been written yet.
func (db *DB) GuardianActive() (bool, error) {
	var active int
	err := db.db.QueryRow(`SELECT founder_active FROM guardian_state WHERE id = 1`).Scan(&active)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return active == 1, nil
}
