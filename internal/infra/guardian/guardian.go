// Package guardian implements founder liveness tracking and the authority
// handoff to the AI oracle.
//
// The founder proves liveness with heartbeats. Inactivity is never detected
// by a background timer — the transition to inactive happens only when
// CheckFounderStatus is explicitly evaluated, so the state can be stale
// between evaluations by design. A later heartbeat reverses the handoff.
package guardian

import (
	"sync"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

// DefaultHeartbeatInterval is how long the founder may stay silent before
// an evaluation flips authority to the oracle.
const DefaultHeartbeatInterval = 7 * 24 * time.Hour

// Config configures the guardian monitor.
type Config struct {
	Founder           string
	HeartbeatInterval time.Duration
}

// DefaultConfig returns bootstrap defaults for the given founder identity.
func DefaultConfig(founder string) Config {
	return Config{
		Founder:           founder,
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// Monitor tracks founder liveness and the council membership set.
// Thread-safe via RWMutex.
type Monitor struct {
	mu            sync.RWMutex
	config        Config
	founderActive bool
	lastHeartbeat time.Time
	council       map[string]struct{} // append-only emergency-governance set
	councilOrder  []string            // insertion order for stable listing

	// Injectable clock for testing.
	now func() time.Time
}

// NewMonitor creates a guardian monitor. The founder starts active with the
// creation instant as its first heartbeat.
func NewMonitor(cfg Config) *Monitor {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	m := &Monitor{
		config:        cfg,
		founderActive: true,
		council:       make(map[string]struct{}),
		now:           time.Now,
	}
	m.lastHeartbeat = m.now()
	return m
}

// SetClock overrides the monitor clock (tests only).
func (m *Monitor) SetClock(now func() time.Time) { m.now = now }

// Founder returns the configured founder identity.
func (m *Monitor) Founder() string { return m.config.Founder }

// ─── Liveness ───────────────────────────────────────────────────────────────

// Heartbeat resets the inactivity clock. Founder-only; implicitly restores
// the active state, reversing any prior handoff.
func (m *Monitor) Heartbeat(caller string) error {
	if caller != m.config.Founder {
		return domain.ErrOnlyFounder
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastHeartbeat = m.now()
	m.founderActive = true
	return nil
}

// CheckFounderStatus re-evaluates liveness. Callable by anyone; this is the
// sole transition point to inactive. Returns the resulting flag.
func (m *Monitor) CheckFounderStatus() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.founderActive = m.now().Sub(m.lastHeartbeat) <= m.config.HeartbeatInterval
	return m.founderActive
}

// Mode returns the authority mode as of the last evaluation.
func (m *Monitor) Mode() domain.AuthorityMode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.founderActive {
		return domain.FounderMode
	}
	return domain.OracleMode
}

// State returns a snapshot of the guardian state.
func (m *Monitor) State() domain.GuardianState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.GuardianState{
		FounderActive:     m.founderActive,
		LastHeartbeat:     m.lastHeartbeat,
		HeartbeatInterval: m.config.HeartbeatInterval,
	}
}

// ─── Council ────────────────────────────────────────────────────────────────

// AddCouncilMember grants emergency-governance rights. Founder-only;
// the set is append-only and adding twice is a no-op.
func (m *Monitor) AddCouncilMember(caller, member string) error {
	if caller != m.config.Founder {
		return domain.ErrOnlyFounder
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.council[member]; ok {
		return nil
	}
	m.council[member] = struct{}{}
	m.councilOrder = append(m.councilOrder, member)
	return nil
}

// IsCouncilMember reports whether the account holds council rights.
func (m *Monitor) IsCouncilMember(account string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.council[account]
	return ok
}

// CouncilMembers returns council accounts in insertion order.
func (m *Monitor) CouncilMembers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.councilOrder))
	copy(out, m.councilOrder)
	return out
}
