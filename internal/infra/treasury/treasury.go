// Package treasury implements the multi-party disbursement gate.
//
// Disbursements are proposed as transactions, collect confirmations from a
// fixed signer set, and execute exactly once when the confirmation threshold
// is met. Confirmations are a per-transaction signer set (not a counter),
// which makes repeat-confirmation rejection trivial. Execution follows
// checks-effects-interactions ordering: state is updated before the external
// transfer callback fires.
package treasury

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visionquantech/youdao/internal/domain"
)

// TransferFunc settles an executed disbursement externally (on-chain
// transfer, bank rail, …). Nil means in-ledger accounting only.
type TransferFunc func(to string, amount float64) error

// Config configures the treasury gate.
type Config struct {
	Signers   []string
	Threshold int // confirmations required; 1 for single-founder bootstrap
}

// DefaultConfig returns the single-founder bootstrap configuration.
func DefaultConfig(founder string) Config {
	return Config{Signers: []string{founder}, Threshold: 1}
}

// Gate is the multi-signature treasury.
// Thread-safe via RWMutex.
type Gate struct {
	mu            sync.RWMutex
	signers       map[string]struct{}
	threshold     int
	balance       float64
	transactions  map[string]*domain.Transaction
	confirmations map[string]map[string]struct{} // txID → confirming signers
	order         []string                       // tx insertion order
	transfer      TransferFunc

	// Injectable clock for testing.
	now func() time.Time
}

// NewGate creates a treasury gate with the given signer set and threshold.
func NewGate(cfg Config) *Gate {
	g := &Gate{
		signers:       make(map[string]struct{}, len(cfg.Signers)),
		threshold:     cfg.Threshold,
		transactions:  make(map[string]*domain.Transaction),
		confirmations: make(map[string]map[string]struct{}),
		now:           time.Now,
	}
	for _, s := range cfg.Signers {
		g.signers[s] = struct{}{}
	}
	if g.threshold < 1 {
		g.threshold = 1
	}
	return g
}

// SetClock overrides the gate clock (tests only).
func (g *Gate) SetClock(now func() time.Time) { g.now = now }

// SetTransfer installs the external settlement callback.
func (g *Gate) SetTransfer(fn TransferFunc) { g.transfer = fn }

// ─── Funding ────────────────────────────────────────────────────────────────

// Deposit credits the treasury balance (royalty forwarding, funding).
func (g *Gate) Deposit(amount float64) {
	if amount <= 0 {
		return
	}
	g.mu.Lock()
	g.balance += amount
	g.mu.Unlock()
}

// Balance returns the current treasury balance.
func (g *Gate) Balance() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.balance
}

// ─── Multi-Signature Flow ───────────────────────────────────────────────────

// ProposeTransaction records a pending disbursement and auto-confirms it for
// the proposer. Fails with ErrNotSigner for non-signers.
func (g *Gate) ProposeTransaction(signer, to string, amount float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.signers[signer]; !ok {
		return "", domain.ErrNotSigner
	}

	id := uuid.New().String()
	g.transactions[id] = &domain.Transaction{
		ID:         id,
		To:         to,
		Amount:     amount,
		ProposedBy: signer,
		ProposedAt: g.now(),
	}
	g.confirmations[id] = map[string]struct{}{signer: {}}
	g.order = append(g.order, id)
	return id, nil
}

// ConfirmTransaction adds a signer's confirmation.
// Fails with ErrNotSigner, ErrTransactionNotFound, or ErrAlreadyConfirmed.
func (g *Gate) ConfirmTransaction(signer, txID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.signers[signer]; !ok {
		return domain.ErrNotSigner
	}
	tx, ok := g.transactions[txID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if tx.Executed {
		return domain.ErrAlreadyExecuted
	}
	if _, ok := g.confirmations[txID][signer]; ok {
		return domain.ErrAlreadyConfirmed
	}

	g.confirmations[txID][signer] = struct{}{}
	return nil
}

// ExecuteTransaction performs the disbursement exactly once.
// Fails with ErrTransactionNotFound, ErrAlreadyExecuted,
// ErrInsufficientConfirmations, or ErrInsufficientBalance.
func (g *Gate) ExecuteTransaction(txID string) error {
	g.mu.Lock()

	tx, ok := g.transactions[txID]
	if !ok {
		g.mu.Unlock()
		return domain.ErrTransactionNotFound
	}
	if tx.Executed {
		g.mu.Unlock()
		return domain.ErrAlreadyExecuted
	}
	if len(g.confirmations[txID]) < g.threshold {
		g.mu.Unlock()
		return domain.ErrInsufficientConfirmations
	}
	if tx.Amount > g.balance {
		g.mu.Unlock()
		return domain.ErrInsufficientBalance
	}

	// Effects before interaction: a reentrant call sees the spent state.
	tx.Executed = true
	g.balance -= tx.Amount
	to, amount := tx.To, tx.Amount
	transfer := g.transfer
	g.mu.Unlock()

	if transfer != nil {
		if err := transfer(to, amount); err != nil {
			return fmt.Errorf("transfer to %s: %w", to, err)
		}
	}
	return nil
}

// Disburse is the single-step path used by proposal execution: one atomic
// command standing for propose + full-set confirmation + execute. All checks
// run before anything is recorded, so a failed disbursement leaves no
// pending transaction behind. The executed record still lands in the ledger
// for the dashboards.
func (g *Gate) Disburse(recipient string, amount float64) error {
	g.mu.Lock()

	if len(g.signers) == 0 {
		g.mu.Unlock()
		return domain.ErrNotSigner
	}
	if amount > g.balance {
		g.mu.Unlock()
		return domain.ErrInsufficientBalance
	}

	signers := make([]string, 0, len(g.signers))
	confirmed := make(map[string]struct{}, len(g.signers))
	for s := range g.signers {
		signers = append(signers, s)
		confirmed[s] = struct{}{}
	}
	sort.Strings(signers)

	id := uuid.New().String()
	g.transactions[id] = &domain.Transaction{
		ID:         id,
		To:         recipient,
		Amount:     amount,
		ProposedBy: signers[0],
		ProposedAt: g.now(),
		Executed:   true,
	}
	g.confirmations[id] = confirmed
	g.order = append(g.order, id)
	g.balance -= amount
	transfer := g.transfer
	g.mu.Unlock()

	if transfer != nil {
		if err := transfer(recipient, amount); err != nil {
			return fmt.Errorf("transfer to %s: %w", recipient, err)
		}
	}
	return nil
}

// ─── Projections ────────────────────────────────────────────────────────────

// Get returns a copy of a transaction with its confirmation set resolved.
func (g *Gate) Get(txID string) (domain.Transaction, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	tx, ok := g.transactions[txID]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return g.snapshot(tx), nil
}

// Transactions returns all transactions in proposal order.
func (g *Gate) Transactions() []domain.Transaction {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.snapshot(g.transactions[id]))
	}
	return out
}

// IsSigner reports whether the account is in the signer set.
func (g *Gate) IsSigner(account string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.signers[account]
	return ok
}

// snapshot copies a transaction and materializes its confirmation list.
// Caller must hold at least a read lock.
func (g *Gate) snapshot(tx *domain.Transaction) domain.Transaction {
	out := *tx
	confirmed := make([]string, 0, len(g.confirmations[tx.ID]))
	for s := range g.confirmations[tx.ID] {
		confirmed = append(confirmed, s)
	}
	sort.Strings(confirmed)
	out.Confirmations = confirmed
	return out
}
