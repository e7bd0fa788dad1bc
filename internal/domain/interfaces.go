package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between components.
// The proposal engine depends on them; the ledgers implement them.

// PowerSource derives voting weight from stake.
type PowerSource interface {
	// VotingPower returns the derived weight for an account.
	// Zero for unknown accounts; never cached across stake mutations.
	VotingPower(account string) float64

	// TotalStaked returns the sum of all staked amounts (quorum base).
	TotalStaked() float64
}

// AuthoritySource reports the current authority mode.
type AuthoritySource interface {
	// Mode returns FounderMode or OracleMode as of the last evaluation.
	Mode() AuthorityMode
}

// Disburser releases treasury funds to a recipient.
// Implementations must be exactly-once per disbursement.
type Disburser interface {
	Disburse(recipient string, amount float64) error
}
