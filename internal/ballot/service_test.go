package ballot

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/adi8567/ballotlytic-wizard/internal/ledger"
	"github.com/adi8567/ballotlytic-wizard/internal/session"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func newTestService() (*Service, ledger.Ledger) {
	led := ledger.NewInMemory(rand.New(rand.NewSource(3)))
	return NewService(led, nil, 0), led
}

func walletIdentity() session.Identity {
	return session.Identity{
		ID:            "voter-1",
		Email:         "a@b.com",
		IsVerified:    true,
		WalletAddress: "0x0123456789abcdef0123456789abcdef01234567",
	}
}

func TestSelectAndSubmit(t *testing.T) {
	ctx := context.Background()
	svc, led := newTestService()
	identity := walletIdentity()

	if _, err := svc.Select(identity.ID, "party-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	b, err := svc.Submit(ctx, identity)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !b.Submitted {
		t.Fatal("expected submitted ballot")
	}
	if !txHashPattern.MatchString(b.TransactionHash) {
		t.Fatalf("transaction hash %q does not match %s", b.TransactionHash, txHashPattern)
	}

	tally, err := led.Tally(ctx)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally["party-1"] != 1 {
		t.Fatalf("expected one recorded vote, got %v", tally)
	}
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()
	svc, led := newTestService()
	identity := walletIdentity()

	// No selection yet.
	if _, err := svc.Submit(ctx, identity); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	// Selection but no wallet address.
	if _, err := svc.Select(identity.ID, "party-2"); err != nil {
		t.Fatalf("select: %v", err)
	}
	noWallet := identity
	noWallet.WalletAddress = ""
	if _, err := svc.Submit(ctx, noWallet); !errors.Is(err, ErrWalletRequired) {
		t.Fatalf("expected ErrWalletRequired, got %v", err)
	}

	// Refusals leave nothing on the ledger.
	tally, err := led.Tally(ctx)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if len(tally) != 0 {
		t.Fatalf("refused submissions reached the ledger: %v", tally)
	}
}

func TestRefusalIncursNoSettlementLatency(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewInMemory(rand.New(rand.NewSource(3)))
	svc := NewService(led, nil, 5*time.Second)

	start := time.Now()
	if _, err := svc.Submit(ctx, walletIdentity()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("refusal waited out settlement latency: %s", elapsed)
	}
}

func TestDoubleSubmitRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	identity := walletIdentity()

	if _, err := svc.Select(identity.ID, "party-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	first, err := svc.Submit(ctx, identity)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Submit(ctx, identity); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	// The hash is terminal.
	if got := svc.Get(identity.ID); got.TransactionHash != first.TransactionHash {
		t.Fatalf("transaction hash changed: %s then %s", first.TransactionHash, got.TransactionHash)
	}
}

func TestSelectionFrozenAfterSubmit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	identity := walletIdentity()

	if _, err := svc.Select(identity.ID, "party-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := svc.Submit(ctx, identity); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Select(identity.ID, "party-2"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSelectUnknownParty(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Select("voter-1", "party-99"); !errors.Is(err, ErrUnknownParty) {
		t.Fatalf("expected ErrUnknownParty, got %v", err)
	}
}

func TestResetClearsLocalStateOnly(t *testing.T) {
	ctx := context.Background()
	svc, led := newTestService()
	identity := walletIdentity()

	if _, err := svc.Select(identity.ID, "party-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := svc.Submit(ctx, identity); err != nil {
		t.Fatalf("submit: %v", err)
	}

	b, err := svc.Reset(identity.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if b.Submitted || b.SelectedPartyID != "" || b.TransactionHash != "" {
		t.Fatalf("expected empty ballot after reset, got %+v", b)
	}

	// The recorded vote stays on the ledger.
	tally, err := led.Tally(ctx)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally["party-1"] != 1 {
		t.Fatalf("reset disturbed the ledger: %v", tally)
	}
}

func TestBallotsAreIndependentPerVoter(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Select("voter-1", "party-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := svc.Get("voter-2"); got.SelectedPartyID != "" {
		t.Fatalf("voter-2 sees voter-1's selection: %+v", got)
	}
}
