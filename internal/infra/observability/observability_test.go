package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFounderActiveGauge(t *testing.T) {
	FounderActive.Set(1)
	if got := testutil.ToFloat64(FounderActive); got != 1 {
		t.Errorf("founder_active = %v, want 1", got)
	}
	FounderActive.Set(0)
	if got := testutil.ToFloat64(FounderActive); got != 0 {
		t.Errorf("founder_active = %v, want 0", got)
	}
}

func TestCommandCounters(t *testing.T) {
	before := testutil.ToFloat64(CommandsApplied.WithLabelValues("stake"))
	CommandsApplied.WithLabelValues("stake").Inc()
	after := testutil.ToFloat64(CommandsApplied.WithLabelValues("stake"))
	if after != before+1 {
		t.Errorf("commands_applied = %v, want %v", after, before+1)
	}

	before = testutil.ToFloat64(CommandsRejected.WithLabelValues("vote", "state_violation"))
	CommandsRejected.WithLabelValues("vote", "state_violation").Inc()
	after = testutil.ToFloat64(CommandsRejected.WithLabelValues("vote", "state_violation"))
	if after != before+1 {
		t.Errorf("commands_rejected = %v, want %v", after, before+1)
	}
}

func TestTreasuryBalanceGauge(t *testing.T) {
	TreasuryBalance.Set(42.5)
	if got := testutil.ToFloat64(TreasuryBalance); got != 42.5 {
		t.Errorf("treasury balance = %v, want 42.5", got)
	}
}
