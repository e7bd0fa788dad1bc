// Package stake implements the stake ledger and derived voting power.
//
// Each account locks a balance that backs its voting weight. Voting power
// is never stored — it is recomputed on demand from the amount and the
// staking timestamp, so it can never go stale across stake mutations.
//
//	power = amount × BaseMultiplier
//	      + amount × min(age/BonusFullTerm, 1) × DurationBonusMax
//
// The formula lives in one pure function (powerAt) so it can be swapped
// without touching the proposal engine.
package stake

import (
	"sync"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

// ─── Constants ──────────────────────────────────────────────────────────────

const (
	// MinStake is the smallest accepted stake deposit.
	MinStake = 0.1

	// BaseMultiplier is the flat bonus applied to every staked unit.
	// Keeps power strictly above raw stake even for a brand-new stake.
	BaseMultiplier = 1.1

	// DurationBonusMax is the extra weight per unit earned at full term.
	DurationBonusMax = 0.5

	// BonusFullTerm is the staking age at which the duration bonus maxes out.
	BonusFullTerm = 365 * 24 * time.Hour
)

// ─── Ledger ─────────────────────────────────────────────────────────────────

// Ledger tracks per-account stake and the total staked balance.
// Thread-safe via RWMutex.
type Ledger struct {
	mu     sync.RWMutex
	stakes map[string]*domain.Stake // account → stake
	total  float64                  // conservation: Σ deposits − Σ withdrawals

	// Injectable clock for testing.
	now func() time.Time
}

// NewLedger creates an empty stake ledger.
func NewLedger() *Ledger {
	return &Ledger{
		stakes: make(map[string]*domain.Stake),
		now:    time.Now,
	}
}

// SetClock overrides the ledger clock (tests only).
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// ─── Commands ───────────────────────────────────────────────────────────────

// Stake deposits amount for the account. Deposits below MinStake fail with
// ErrInsufficientAmount. A first deposit creates the entry and pins the
// staking timestamp; later deposits add to the amount.
func (l *Ledger) Stake(account string, amount float64) error {
	if amount < MinStake {
		return domain.ErrInsufficientAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.stakes[account]
	if !ok || s.Amount == 0 {
		// Fresh entry, or re-entry after a full unstake: restart the clock.
		l.stakes[account] = &domain.Stake{
			Account:  account,
			Amount:   amount,
			StakedAt: l.now(),
		}
	} else {
		s.Amount += amount
	}
	l.total += amount
	return nil
}

// Unstake withdraws amount from the account. Withdrawing more than the
// current stake fails with ErrInsufficientStake. A full withdrawal leaves
// the entry at amount 0 — the observable "cleared" contract.
func (l *Ledger) Unstake(account string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.stakes[account]
	if !ok || amount > s.Amount {
		return domain.ErrInsufficientStake
	}

	s.Amount -= amount
	l.total -= amount
	return nil
}

// ─── Projections ────────────────────────────────────────────────────────────

// Get returns a copy of the account's stake, or a zero-amount stake for
// unknown accounts.
func (l *Ledger) Get(account string) domain.Stake {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if s, ok := l.stakes[account]; ok {
		return *s
	}
	return domain.Stake{Account: account}
}

// VotingPower derives the account's current voting weight.
// Pure projection: zero for unknown or fully-unstaked accounts.
func (l *Ledger) VotingPower(account string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.stakes[account]
	if !ok {
		return 0
	}
	return powerAt(s.Amount, s.StakedAt, l.now())
}

// TotalStaked returns the sum of all staked amounts (the quorum base).
func (l *Ledger) TotalStaked() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// StakerCount returns the number of accounts with a nonzero stake.
func (l *Ledger) StakerCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, s := range l.stakes {
		if s.Amount > 0 {
			n++
		}
	}
	return n
}

// ─── Pure Helper Functions ──────────────────────────────────────────────────

// powerAt computes voting power for an amount staked at stakedAt, as of now.
// Strictly increasing in amount; ≥ amount whenever amount > 0.
func powerAt(amount float64, stakedAt, now time.Time) float64 {
	if amount <= 0 {
		return 0
	}
	age := now.Sub(stakedAt)
	frac := float64(age) / float64(BonusFullTerm)
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	return amount*BaseMultiplier + amount*frac*DurationBonusMax
}
