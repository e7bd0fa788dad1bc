package treasury

import (
	"errors"
	"testing"

	"github.com/visionquantech/youdao/internal/domain"
)

const founder = "founder-0x1"

func newBootstrapGate() *Gate {
	g := NewGate(DefaultConfig(founder))
	g.Deposit(100)
	return g
}

func TestDepositAndBalance(t *testing.T) {
	g := NewGate(DefaultConfig(founder))
	g.Deposit(10)
	g.Deposit(2.5)
	g.Deposit(-5) // ignored

	if got := g.Balance(); got != 12.5 {
		t.Errorf("balance = %v, want 12.5", got)
	}
}

func TestProposeTransaction_NotSigner(t *testing.T) {
	g := newBootstrapGate()
	_, err := g.ProposeTransaction("stranger", "bob", 1)
	if !errors.Is(err, domain.ErrNotSigner) {
		t.Fatalf("err = %v, want ErrNotSigner", err)
	}
}

func TestSingleSignerFlow(t *testing.T) {
	g := newBootstrapGate()

	txID, err := g.ProposeTransaction(founder, "bob", 10)
	if err != nil {
		t.Fatalf("ProposeTransaction failed: %v", err)
	}

	// Proposer auto-confirms, threshold 1 — executable immediately.
	if err := g.ExecuteTransaction(txID); err != nil {
		t.Fatalf("ExecuteTransaction failed: %v", err)
	}
	if got := g.Balance(); got != 90 {
		t.Errorf("balance = %v, want 90", got)
	}

	tx, err := g.Get(txID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !tx.Executed {
		t.Error("transaction should be marked executed")
	}
}

func TestConfirmTransaction_AlreadyConfirmed(t *testing.T) {
	g := newBootstrapGate()
	txID, _ := g.ProposeTransaction(founder, "bob", 10)

	err := g.ConfirmTransaction(founder, txID)
	if !errors.Is(err, domain.ErrAlreadyConfirmed) {
		t.Fatalf("err = %v, want ErrAlreadyConfirmed (proposer auto-confirms)", err)
	}
}

func TestConfirmTransaction_NotSigner(t *testing.T) {
	g := newBootstrapGate()
	txID, _ := g.ProposeTransaction(founder, "bob", 10)

	if err := g.ConfirmTransaction("stranger", txID); !errors.Is(err, domain.ErrNotSigner) {
		t.Fatalf("err = %v, want ErrNotSigner", err)
	}
}

func TestConfirmTransaction_NotFound(t *testing.T) {
	g := newBootstrapGate()
	err := g.ConfirmTransaction(founder, "tx-missing")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestNOfMThreshold(t *testing.T) {
	g := NewGate(Config{Signers: []string{"a", "b", "c"}, Threshold: 2})
	g.Deposit(50)

	txID, err := g.ProposeTransaction("a", "bob", 20)
	if err != nil {
		t.Fatalf("ProposeTransaction failed: %v", err)
	}

	// One confirmation (the proposer's) — below the 2-of-3 threshold.
	err = g.ExecuteTransaction(txID)
	if !errors.Is(err, domain.ErrInsufficientConfirmations) {
		t.Fatalf("err = %v, want ErrInsufficientConfirmations", err)
	}

	if err := g.ConfirmTransaction("b", txID); err != nil {
		t.Fatalf("ConfirmTransaction failed: %v", err)
	}
	if err := g.ExecuteTransaction(txID); err != nil {
		t.Fatalf("ExecuteTransaction failed: %v", err)
	}
	if got := g.Balance(); got != 30 {
		t.Errorf("balance = %v, want 30", got)
	}
}

func TestExecuteTransaction_ExactlyOnce(t *testing.T) {
	g := newBootstrapGate()
	txID, _ := g.ProposeTransaction(founder, "bob", 10)

	if err := g.ExecuteTransaction(txID); err != nil {
		t.Fatalf("first execute failed: %v", err)
	}
	err := g.ExecuteTransaction(txID)
	if !errors.Is(err, domain.ErrAlreadyExecuted) {
		t.Fatalf("err = %v, want ErrAlreadyExecuted", err)
	}
	if got := g.Balance(); got != 90 {
		t.Errorf("balance = %v, want 90 — no double spend", got)
	}
}

func TestExecuteTransaction_InsufficientBalance(t *testing.T) {
	g := NewGate(DefaultConfig(founder))
	g.Deposit(5)
	txID, _ := g.ProposeTransaction(founder, "bob", 10)

	err := g.ExecuteTransaction(txID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := g.Balance(); got != 5 {
		t.Errorf("balance = %v, want 5 unchanged", got)
	}
}

func TestReentrantTransferSeesSpentState(t *testing.T) {
	g := newBootstrapGate()
	txID, _ := g.ProposeTransaction(founder, "bob", 10)

	var reentrantErr error
	g.SetTransfer(func(to string, amount float64) error {
		// A malicious callee re-entering must hit the executed guard.
		reentrantErr = g.ExecuteTransaction(txID)
		return nil
	})

	if err := g.ExecuteTransaction(txID); err != nil {
		t.Fatalf("ExecuteTransaction failed: %v", err)
	}
	if !errors.Is(reentrantErr, domain.ErrAlreadyExecuted) {
		t.Errorf("reentrant call err = %v, want ErrAlreadyExecuted", reentrantErr)
	}
	if got := g.Balance(); got != 90 {
		t.Errorf("balance = %v, want 90 — single deduction", got)
	}
}

func TestTransferFailureSurfaces(t *testing.T) {
	g := newBootstrapGate()
	txID, _ := g.ProposeTransaction(founder, "bob", 10)
	g.SetTransfer(func(to string, amount float64) error {
		return errors.New("rail unavailable")
	})

	if err := g.ExecuteTransaction(txID); err == nil {
		t.Fatal("expected transfer failure to surface")
	}
}

func TestDisburse(t *testing.T) {
	g := NewGate(Config{Signers: []string{"a", "b"}, Threshold: 2})
	g.Deposit(40)

	if err := g.Disburse("bob", 15); err != nil {
		t.Fatalf("Disburse failed: %v", err)
	}
	if got := g.Balance(); got != 25 {
		t.Errorf("balance = %v, want 25", got)
	}

	txs := g.Transactions()
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if !txs[0].Executed || txs[0].To != "bob" || txs[0].Amount != 15 {
		t.Errorf("unexpected transaction record: %+v", txs[0])
	}
	if len(txs[0].Confirmations) != 2 {
		t.Errorf("confirmations = %v, want both signers", txs[0].Confirmations)
	}
}

func TestDisburse_InsufficientBalanceLeavesNoRecord(t *testing.T) {
	g := newBootstrapGate()

	err := g.Disburse("bob", 250)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := g.Balance(); got != 100 {
		t.Errorf("balance = %v, want 100 unchanged", got)
	}
	// Nothing pending: a later deposit must not make the failed
	// disbursement executable.
	if txs := g.Transactions(); len(txs) != 0 {
		t.Fatalf("transactions = %+v, want none after failed disburse", txs)
	}

	g.Deposit(200)
	if err := g.Disburse("bob", 250); err != nil {
		t.Fatalf("Disburse after funding failed: %v", err)
	}
	if got := g.Balance(); got != 50 {
		t.Errorf("balance = %v, want 50 — exactly one payout", got)
	}
	if txs := g.Transactions(); len(txs) != 1 {
		t.Errorf("transactions = %d, want 1", len(txs))
	}
}

func TestTransactionsOrder(t *testing.T) {
	g := newBootstrapGate()
	id1, _ := g.ProposeTransaction(founder, "a", 1)
	id2, _ := g.ProposeTransaction(founder, "b", 2)

	txs := g.Transactions()
	if len(txs) != 2 || txs[0].ID != id1 || txs[1].ID != id2 {
		t.Errorf("transactions not in proposal order: %+v", txs)
	}
}
