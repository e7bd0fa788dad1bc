package guardian

import (
	"errors"
	"testing"
	"time"

	"github.com/visionquantech/youdao/internal/domain"
)

const founder = "founder-0x1"

func fixedTime(year int, month time.Month, day int) func() time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newTestMonitor() *Monitor {
	m := NewMonitor(DefaultConfig(founder))
	m.SetClock(fixedTime(2025, time.January, 1))
	// Pin the initial heartbeat to the test clock.
	m.Heartbeat(founder)
	return m
}

func TestHeartbeat_FounderOnly(t *testing.T) {
	m := newTestMonitor()
	err := m.Heartbeat("impostor")
	if !errors.Is(err, domain.ErrOnlyFounder) {
		t.Fatalf("err = %v, want ErrOnlyFounder", err)
	}
}

func TestFounderStartsActive(t *testing.T) {
	m := newTestMonitor()
	if !m.State().FounderActive {
		t.Error("founder should start active")
	}
	if m.Mode() != domain.FounderMode {
		t.Errorf("mode = %v, want FounderMode", m.Mode())
	}
}

func TestCheckFounderStatus_WithinInterval(t *testing.T) {
	m := newTestMonitor()
	m.SetClock(fixedTime(2025, time.January, 5)) // 4 days < 7 days

	if !m.CheckFounderStatus() {
		t.Error("founder should remain active within heartbeat interval")
	}
}

func TestCheckFounderStatus_Stale(t *testing.T) {
	m := newTestMonitor()
	m.SetClock(fixedTime(2025, time.January, 10)) // 9 days > 7 days

	if m.CheckFounderStatus() {
		t.Error("founder should be inactive past heartbeat interval")
	}
	if m.Mode() != domain.OracleMode {
		t.Errorf("mode = %v, want OracleMode", m.Mode())
	}
}

func TestStaleStateOnlyFlipsOnCheck(t *testing.T) {
	m := newTestMonitor()
	m.SetClock(fixedTime(2025, time.January, 10))

	// No evaluation yet — snapshot is stale-active by design.
	if !m.State().FounderActive {
		t.Error("state should remain active until CheckFounderStatus runs")
	}
	if m.Mode() != domain.FounderMode {
		t.Error("mode should remain FounderMode until evaluated")
	}

	m.CheckFounderStatus()
	if m.State().FounderActive {
		t.Error("state should be inactive after explicit evaluation")
	}
}

func TestHeartbeatReversesHandoff(t *testing.T) {
	m := newTestMonitor()
	m.SetClock(fixedTime(2025, time.January, 10))
	m.CheckFounderStatus()

	if m.Mode() != domain.OracleMode {
		t.Fatal("precondition: oracle mode expected")
	}

	if err := m.Heartbeat(founder); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}
	if m.Mode() != domain.FounderMode {
		t.Error("heartbeat should restore FounderMode")
	}
	if !m.CheckFounderStatus() {
		t.Error("founder should evaluate active after fresh heartbeat")
	}
}

func TestCheckFounderStatus_BoundaryInclusive(t *testing.T) {
	m := NewMonitor(Config{Founder: founder, HeartbeatInterval: 48 * time.Hour})
	m.SetClock(fixedTime(2025, time.January, 1))
	m.Heartbeat(founder)

	// Exactly at the interval: still active (≤, not <).
	m.SetClock(fixedTime(2025, time.January, 3))
	if !m.CheckFounderStatus() {
		t.Error("founder should be active exactly at the interval boundary")
	}
}

func TestAddCouncilMember(t *testing.T) {
	m := newTestMonitor()

	if err := m.AddCouncilMember(founder, "council-1"); err != nil {
		t.Fatalf("AddCouncilMember failed: %v", err)
	}
	if !m.IsCouncilMember("council-1") {
		t.Error("council-1 should be a member")
	}
	if m.IsCouncilMember("stranger") {
		t.Error("stranger should not be a member")
	}
}

func TestAddCouncilMember_FounderOnly(t *testing.T) {
	m := newTestMonitor()
	err := m.AddCouncilMember("impostor", "council-1")
	if !errors.Is(err, domain.ErrOnlyFounder) {
		t.Fatalf("err = %v, want ErrOnlyFounder", err)
	}
}

func TestAddCouncilMember_Idempotent(t *testing.T) {
	m := newTestMonitor()
	m.AddCouncilMember(founder, "council-1")
	m.AddCouncilMember(founder, "council-1")
	m.AddCouncilMember(founder, "council-2")

	got := m.CouncilMembers()
	if len(got) != 2 {
		t.Fatalf("members = %v, want 2 entries", got)
	}
	if got[0] != "council-1" || got[1] != "council-2" {
		t.Errorf("members = %v, want insertion order", got)
	}
}
