// Package observability exposes Prometheus metrics for the governance core.
//
// Gauges mirror current ledger state (treasury balance, founder liveness);
// counters track applied commands. The core updates them inside its
// single-writer command path, so every metric reflects the serialized state.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Governance Metrics ─────────────────────────────────────────────────────

// ProposalsCreated tracks total proposals created.
var ProposalsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "governance",
	Name:      "proposals_created_total",
	Help:      "Total proposals created.",
})

// VotesCast tracks total votes cast across all proposals.
var VotesCast = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "governance",
	Name:      "votes_cast_total",
	Help:      "Total votes cast.",
})

// ProposalsExecuted tracks total executed proposals.
var ProposalsExecuted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "governance",
	Name:      "proposals_executed_total",
	Help:      "Total proposals executed.",
})

// AIDecisions tracks oracle decisions by verdict.
var AIDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "governance",
	Name:      "ai_decisions_total",
	Help:      "Total AI oracle decisions recorded, by verdict.",
}, []string{"verdict"})

// ─── Guardian Metrics ───────────────────────────────────────────────────────

// Heartbeats tracks founder heartbeats received.
var Heartbeats = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "guardian",
	Name:      "heartbeats_total",
	Help:      "Total founder heartbeats received.",
})

// FounderActive tracks the current liveness flag (1 active, 0 inactive).
var FounderActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "youdao",
	Subsystem: "guardian",
	Name:      "founder_active",
	Help:      "Whether the founder is active (1) or authority has passed to the oracle (0).",
})

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// TotalStaked tracks the current total staked balance.
var TotalStaked = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "youdao",
	Subsystem: "stake",
	Name:      "total_staked",
	Help:      "Current total staked balance.",
})

// TreasuryBalance tracks the current treasury balance.
var TreasuryBalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "youdao",
	Subsystem: "treasury",
	Name:      "balance",
	Help:      "Current treasury balance.",
})

// RoyaltiesPaid tracks cumulative royalties received.
var RoyaltiesPaid = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "license",
	Name:      "royalties_paid_total",
	Help:      "Cumulative royalty amount received across all licenses.",
})

// ─── Command Metrics ────────────────────────────────────────────────────────

// CommandsApplied tracks successfully applied commands by name.
var CommandsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "core",
	Name:      "commands_applied_total",
	Help:      "Total commands applied, by command name.",
}, []string{"command"})

// CommandsRejected tracks rejected commands by name and error class.
var CommandsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "youdao",
	Subsystem: "core",
	Name:      "commands_rejected_total",
	Help:      "Total commands rejected, by command name and error class.",
}, []string{"command", "class"})
