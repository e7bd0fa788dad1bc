package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestProposalStatusString(t *testing.T) {
	tests := []struct {
		status ProposalStatus
		want   string
	}{
		{PropActive, "ACTIVE"},
		{PropPassed, "PASSED"},
		{PropRejected, "REJECTED"},
		{PropExecuted, "EXECUTED"},
		{ProposalStatus(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("ProposalStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestProposalCategoryString(t *testing.T) {
	tests := []struct {
		cat  ProposalCategory
		want string
	}{
		{CatGeneral, "GENERAL"},
		{CatTreasury, "TREASURY"},
		{CatLicensing, "LICENSING"},
		{CatSuccession, "SUCCESSION"},
		{CatEmergency, "EMERGENCY"},
		{ProposalCategory(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("ProposalCategory(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestAuthorityModeString(t *testing.T) {
	if FounderMode.String() != "FOUNDER" {
		t.Errorf("FounderMode.String() = %q", FounderMode.String())
	}
	if OracleMode.String() != "ORACLE" {
		t.Errorf("OracleMode.String() = %q", OracleMode.String())
	}
	if AuthorityMode(7).String() != "UNKNOWN" {
		t.Errorf("AuthorityMode(7).String() = %q", AuthorityMode(7).String())
	}
}

func TestEnumJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(PropPassed)
	if err != nil {
		t.Fatalf("marshal status: %v", err)
	}
	if string(b) != `"PASSED"` {
		t.Errorf("status json = %s, want \"PASSED\"", b)
	}
	var s ProposalStatus
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if s != PropPassed {
		t.Errorf("round trip = %v, want PASSED", s)
	}

	var c ProposalCategory
	if err := json.Unmarshal([]byte(`"TREASURY"`), &c); err != nil {
		t.Fatalf("unmarshal category: %v", err)
	}
	if c != CatTreasury {
		t.Errorf("category = %v, want TREASURY", c)
	}
	if err := json.Unmarshal([]byte(`"BOGUS"`), &c); err == nil {
		t.Error("expected error for unknown category name")
	}
}

func TestTurnout(t *testing.T) {
	p := &Proposal{ForVotes: 3.5, AgainstVotes: 1.5}
	if p.Turnout() != 5.0 {
		t.Errorf("Turnout() = %v, want 5.0", p.Turnout())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{ErrNotStaker, ClassAccessControl},
		{ErrNotOracle, ClassAccessControl},
		{ErrNotSigner, ClassAccessControl},
		{ErrOnlyFounder, ClassAccessControl},
		{ErrOracleApprovalRequired, ClassAccessControl},
		{ErrAlreadyVoted, ClassStateViolation},
		{ErrAlreadyExecuted, ClassStateViolation},
		{ErrAlreadyConfirmed, ClassStateViolation},
		{ErrLicenseExpired, ClassStateViolation},
		{ErrInsufficientAmount, ClassPrecondition},
		{ErrInsufficientStake, ClassPrecondition},
		{ErrQuorumNotMet, ClassPrecondition},
		{ErrProposalRejected, ClassPrecondition},
		{ErrVotingStillOpen, ClassPrecondition},
		{ErrVotingClosed, ClassPrecondition},
		{ErrTimelockActive, ClassPrecondition},
		{ErrProposalNotFound, ClassNotFound},
		{ErrLicenseNotFound, ClassNotFound},
		{errors.New("disk on fire"), ClassInternal},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestClassifyWrapped(t *testing.T) {
	wrapped := fmt.Errorf("vote on proposal 3: %w", ErrAlreadyVoted)
	if got := Classify(wrapped); got != ClassStateViolation {
		t.Errorf("Classify(wrapped) = %q, want %q", got, ClassStateViolation)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(0.1); got != "0.1000" {
		t.Errorf("FormatAmount(0.1) = %q", got)
	}
}
