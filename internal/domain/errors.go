package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Every failure is a rejected command, never a crash, and always leaves
// shared state unchanged.

var (
	// Access control
	ErrNotStaker              = errors.New("account holds no stake")
	ErrNotOracle              = errors.New("caller is not the designated oracle")
	ErrNotSigner              = errors.New("caller is not a treasury signer")
	ErrOnlyFounder            = errors.New("operation restricted to founder")
	ErrOracleApprovalRequired = errors.New("execution requires AI oracle approval while founder is inactive")

	// State violations
	ErrAlreadyVoted     = errors.New("account already voted on this proposal")
	ErrAlreadyExecuted  = errors.New("already executed")
	ErrAlreadyConfirmed = errors.New("signer already confirmed this transaction")
	ErrLicenseExpired   = errors.New("license has expired")

	// Precondition failures
	ErrInsufficientAmount        = errors.New("amount below minimum stake")
	ErrInsufficientStake         = errors.New("unstake amount exceeds current stake")
	ErrInsufficientConfirmations = errors.New("not enough confirmations")
	ErrInsufficientBalance       = errors.New("treasury balance too low")
	ErrQuorumNotMet              = errors.New("quorum not met")
	ErrProposalRejected          = errors.New("proposal did not pass")
	ErrVotingStillOpen           = errors.New("voting period still open")
	ErrVotingClosed              = errors.New("voting period has closed")
	ErrTimelockActive            = errors.New("execution timelock still active")
	ErrInvalidRoyalty            = errors.New("royalty basis points out of range")

	// Not found
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrLicenseNotFound     = errors.New("license not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSuccessorNotFound   = errors.New("successor not found")
)

// ErrorClass buckets a sentinel error for metrics and API mapping.
type ErrorClass string

const (
	ClassAccessControl  ErrorClass = "access_control"
	ClassStateViolation ErrorClass = "state_violation"
	ClassPrecondition   ErrorClass = "precondition"
	ClassNotFound       ErrorClass = "not_found"
	ClassInternal       ErrorClass = "internal"
)

// Classify maps an error to its taxonomy class.
func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrNotStaker),
		errors.Is(err, ErrNotOracle),
		errors.Is(err, ErrNotSigner),
		errors.Is(err, ErrOnlyFounder),
		errors.Is(err, ErrOracleApprovalRequired):
		return ClassAccessControl
	case errors.Is(err, ErrAlreadyVoted),
		errors.Is(err, ErrAlreadyExecuted),
		errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrLicenseExpired):
		return ClassStateViolation
	case errors.Is(err, ErrInsufficientAmount),
		errors.Is(err, ErrInsufficientStake),
		errors.Is(err, ErrInsufficientConfirmations),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrQuorumNotMet),
		errors.Is(err, ErrProposalRejected),
		errors.Is(err, ErrVotingStillOpen),
		errors.Is(err, ErrVotingClosed),
		errors.Is(err, ErrTimelockActive),
		errors.Is(err, ErrInvalidRoyalty):
		return ClassPrecondition
	case errors.Is(err, ErrProposalNotFound),
		errors.Is(err, ErrLicenseNotFound),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrSuccessorNotFound):
		return ClassNotFound
	default:
		return ClassInternal
	}
}
