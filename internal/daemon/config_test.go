package daemon

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8547 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8547)
	}
	if cfg.Governance.VotingPeriod != "168h" {
		t.Errorf("Governance.VotingPeriod = %q, want %q", cfg.Governance.VotingPeriod, "168h")
	}
	if cfg.Governance.QuorumPct != 0.30 {
		t.Errorf("Governance.QuorumPct = %v, want 0.30", cfg.Governance.QuorumPct)
	}
	if cfg.Guardian.HeartbeatInterval != "168h" {
		t.Errorf("Guardian.HeartbeatInterval = %q, want %q", cfg.Guardian.HeartbeatInterval, "168h")
	}
	if cfg.Treasury.Threshold != 1 {
		t.Errorf("Treasury.Threshold = %d, want 1", cfg.Treasury.Threshold)
	}
}

func TestCoreConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Identity.Founder = "0xfounder"
	cfg.Identity.Oracle = "0xoracle"

	cc, err := cfg.CoreConfig()
	if err != nil {
		t.Fatalf("CoreConfig failed: %v", err)
	}
	if cc.VotingPeriod != 7*24*time.Hour {
		t.Errorf("VotingPeriod = %v, want 168h", cc.VotingPeriod)
	}
	if cc.HeartbeatInterval != 7*24*time.Hour {
		t.Errorf("HeartbeatInterval = %v, want 168h", cc.HeartbeatInterval)
	}
	if cc.ExecutionDelay != 0 {
		t.Errorf("ExecutionDelay = %v, want 0", cc.ExecutionDelay)
	}
	// Empty signer list falls back to the founder alone.
	if len(cc.TreasurySigners) != 1 || cc.TreasurySigners[0] != "0xfounder" {
		t.Errorf("TreasurySigners = %v, want [0xfounder]", cc.TreasurySigners)
	}
}

func TestCoreConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Governance.VotingPeriod = "seven days"
	if _, err := cfg.CoreConfig(); err == nil {
		t.Error("expected error for unparseable voting_period")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	t.Setenv("YOUDAO_HOME", t.TempDir())

	// First load creates the file with defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Port != 8547 {
		t.Errorf("fresh config port = %d, want 8547", cfg.API.Port)
	}

	cfg.API.Port = 9000
	cfg.Treasury.Signers = []string{"a", "b"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.API.Port != 9000 {
		t.Errorf("reloaded port = %d, want 9000", reloaded.API.Port)
	}
	if len(reloaded.Treasury.Signers) != 2 {
		t.Errorf("reloaded signers = %v, want two", reloaded.Treasury.Signers)
	}
}
