// Package daemon handles node configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/visionquantech/youdao/internal/app/core"
)

// Config is the node configuration, stored at ~/.youdao/config.toml.
// Durations are TOML strings ("168h") parsed on load.
type Config struct {
	API        APIConfig        `toml:"api"`
	Identity   IdentityConfig   `toml:"identity"`
	Governance GovernanceConfig `toml:"governance"`
	Guardian   GuardianConfig   `toml:"guardian"`
	Treasury   TreasuryConfig   `toml:"treasury"`
	Storage    StorageConfig    `toml:"storage"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

// IdentityConfig names the privileged identities.
type IdentityConfig struct {
	Founder string `toml:"founder"`
	Oracle  string `toml:"oracle"`
}

// GovernanceConfig tunes the proposal engine. The minimum stake is a fixed
// protocol constant (stake.MinStake), not a config knob.
type GovernanceConfig struct {
	VotingPeriod   string  `toml:"voting_period"`
	QuorumPct      float64 `toml:"quorum_pct"`
	ExecutionDelay string  `toml:"execution_delay"`
}

// GuardianConfig tunes the founder-liveness monitor.
type GuardianConfig struct {
	HeartbeatInterval string `toml:"heartbeat_interval"`
}

// TreasuryConfig configures the multisig gate.
type TreasuryConfig struct {
	Signers   []string `toml:"signers"`
	Threshold int      `toml:"threshold"`
}

// StorageConfig configures the projection store.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// DefaultConfig returns the single-founder bootstrap configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host:          "127.0.0.1",
			Port:          8547,
			EnableMetrics: true,
		},
		Identity: IdentityConfig{
			Founder: "founder",
			Oracle:  "oracle",
		},
		Governance: GovernanceConfig{
			VotingPeriod:   "168h",
			QuorumPct:      0.30,
			ExecutionDelay: "0s",
		},
		Guardian: GuardianConfig{
			HeartbeatInterval: "168h",
		},
		Treasury: TreasuryConfig{
			Threshold: 1,
		},
		Storage: StorageConfig{},
	}
}

// Dir returns the node home directory (~/.youdao).
func Dir() string {
	if dir := os.Getenv("YOUDAO_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".youdao"
	}
	return filepath.Join(home, ".youdao")
}

// ConfigPath returns the config file path.
func ConfigPath() string { return filepath.Join(Dir(), "config.toml") }

// Load reads the config file, creating it with defaults on first run.
func Load() (*Config, error) {
	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating the home directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(ConfigPath())
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// DBPath returns the projection database path, defaulting into the home dir.
func (c *Config) DBPath() string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return filepath.Join(Dir(), "youdao.db")
}

// CoreConfig resolves the TOML config into core wiring, parsing durations.
func (c *Config) CoreConfig() (core.Config, error) {
	votingPeriod, err := time.ParseDuration(c.Governance.VotingPeriod)
	if err != nil {
		return core.Config{}, fmt.Errorf("parse voting_period: %w", err)
	}
	executionDelay := time.Duration(0)
	if c.Governance.ExecutionDelay != "" {
		executionDelay, err = time.ParseDuration(c.Governance.ExecutionDelay)
		if err != nil {
			return core.Config{}, fmt.Errorf("parse execution_delay: %w", err)
		}
	}
	heartbeat, err := time.ParseDuration(c.Guardian.HeartbeatInterval)
	if err != nil {
		return core.Config{}, fmt.Errorf("parse heartbeat_interval: %w", err)
	}

	signers := c.Treasury.Signers
	if len(signers) == 0 {
		signers = []string{c.Identity.Founder}
	}
	return core.Config{
		Founder:           c.Identity.Founder,
		Oracle:            c.Identity.Oracle,
		TreasurySigners:   signers,
		TreasuryThreshold: c.Treasury.Threshold,
		VotingPeriod:      votingPeriod,
		QuorumPct:         c.Governance.QuorumPct,
		ExecutionDelay:    executionDelay,
		HeartbeatInterval: heartbeat,
	}, nil
}
