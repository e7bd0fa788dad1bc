// Package license implements the IP-licensing and royalty ledger.
//
// Licenses are founder-issued and expire lazily: there is no background
// timer — expiry is evaluated against the clock at operation and read time.
// TotalRoyaltiesPaid is monotonically non-decreasing; royalty payments are
// forwarded to the treasury.
package license

import (
	"sync"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

// MaxRoyaltyBps caps the royalty rate at 100%.
const MaxRoyaltyBps = 10000

// Depositor receives forwarded royalty funds (the treasury gate).
type Depositor interface {
	Deposit(amount float64)
}

// Ledger tracks issued licenses and cumulative royalties.
// Thread-safe via RWMutex.
type Ledger struct {
	mu       sync.RWMutex
	founder  string
	licenses map[uint64]*domain.License
	nextID   uint64
	treasury Depositor

	// Injectable clock for testing.
	now func() time.Time
}

// NewLedger creates a license ledger. treasury may be nil in tests that
// only exercise accounting.
func NewLedger(founder string, treasury Depositor) *Ledger {
	return &Ledger{
		founder:  founder,
		licenses: make(map[uint64]*domain.License),
		nextID:   1,
		treasury: treasury,
		now:      time.Now,
	}
}

// SetClock overrides the ledger clock (tests only).
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// ─── Commands ───────────────────────────────────────────────────────────────

// IssueLicense creates an active license. Founder-only; royaltyBps must be
// within [0, MaxRoyaltyBps].
func (l *Ledger) IssueLicense(caller, ipName, ipType, licensee string, royaltyBps int, duration time.Duration) (*domain.License, error) {
	if caller != l.founder {
		return nil, domain.ErrOnlyFounder
	}
	if royaltyBps < 0 || royaltyBps > MaxRoyaltyBps {
		return nil, domain.ErrInvalidRoyalty
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	lic := &domain.License{
		ID:         l.nextID,
		IPName:     ipName,
		IPType:     ipType,
		Licensee:   licensee,
		RoyaltyBps: royaltyBps,
		IssuedAt:   now,
		ExpiresAt:  now.Add(duration),
		Active:     true,
	}
	l.licenses[lic.ID] = lic
	l.nextID++
	return snapshot(lic), nil
}

// PayRoyalty accrues a royalty payment against a license and forwards the
// funds to the treasury. Fails with ErrLicenseNotFound or ErrLicenseExpired;
// expiry is evaluated here, lazily. The payer identity is recorded but not
// gated against the license holder: payments only ever credit the license
// and the treasury, so third parties may settle on a licensee's behalf.
func (l *Ledger) PayRoyalty(licensee string, licenseID uint64, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lic, ok := l.licenses[licenseID]
	if !ok {
		return domain.ErrLicenseNotFound
	}
	if l.now().After(lic.ExpiresAt) {
		lic.Active = false
		return domain.ErrLicenseExpired
	}
	if amount <= 0 {
		return domain.ErrInsufficientAmount
	}

	lic.TotalRoyaltiesPaid += amount
	if l.treasury != nil {
		l.treasury.Deposit(amount)
	}
	return nil
}

// ─── Projections ────────────────────────────────────────────────────────────

// Get returns a copy of the license with expiry applied.
func (l *Ledger) Get(licenseID uint64) (domain.License, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lic, ok := l.licenses[licenseID]
	if !ok {
		return domain.License{}, domain.ErrLicenseNotFound
	}
	l.applyExpiry(lic)
	return *lic, nil
}

// List returns licenses in issuance order, optionally active-only.
// Expiry is applied on read.
func (l *Ledger) List(activeOnly bool) []domain.License {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.License, 0, len(l.licenses))
	for id := uint64(1); id < l.nextID; id++ {
		lic := l.licenses[id]
		l.applyExpiry(lic)
		if activeOnly && !lic.Active {
			continue
		}
		out = append(out, *lic)
	}
	return out
}

// TotalRoyalties returns the cumulative royalties across all licenses.
func (l *Ledger) TotalRoyalties() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total float64
	for _, lic := range l.licenses {
		total += lic.TotalRoyaltiesPaid
	}
	return total
}

// Count returns the number of issued licenses.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.licenses)
}

// applyExpiry flips Active off once the clock passes ExpiresAt.
// Caller must hold the write lock.
func (l *Ledger) applyExpiry(lic *domain.License) {
	if lic.Active && l.now().After(lic.ExpiresAt) {
		lic.Active = false
	}
}

func snapshot(lic *domain.License) *domain.License {
	out := *lic
	return &out
}
