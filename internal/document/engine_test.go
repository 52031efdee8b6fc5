package document

import (
	"errors"
	"testing"
	"time"
)

const settleTimeout = 2 * time.Second

func newTestEngine(t *testing.T, successRate float64) *Engine {
	t.Helper()
	oracle := NewSimulatedOracle(30*time.Millisecond, successRate, nil)
	engine := NewEngine(
		Document{ID: "voter-id", Type: "Voter ID", Filename: "id.pdf", Status: StatusPending},
		oracle,
		WithProgressInterval(2*time.Millisecond),
	)
	t.Cleanup(engine.Close)
	return engine
}

func waitSettled(t *testing.T, engine *Engine) {
	t.Helper()
	select {
	case <-engine.Settled():
	case <-time.After(settleTimeout):
		t.Fatal("verification did not settle in time")
	}
}

func TestVerifyResolvesToVerified(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got := engine.Snapshot(); got.Status != StatusVerifying {
		t.Fatalf("expected verifying, got %s", got.Status)
	}

	waitSettled(t, engine)
	if got := engine.Snapshot(); got.Status != StatusVerified {
		t.Fatalf("expected verified, got %s", got.Status)
	}
}

func TestVerifyResolvesToRejectedAndAllowsRetry(t *testing.T) {
	engine := newTestEngine(t, 0)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	waitSettled(t, engine)
	if got := engine.Snapshot(); got.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", got.Status)
	}

	// rejected re-enters verifying
	if err := engine.Verify(); err != nil {
		t.Fatalf("retry verify: %v", err)
	}
	if got := engine.Snapshot(); got.Status != StatusVerifying {
		t.Fatalf("expected verifying after retry, got %s", got.Status)
	}
	if got := engine.Snapshot(); got.Progress != 0 {
		t.Fatalf("expected progress reset to 0, got %d", got.Progress)
	}
	waitSettled(t, engine)
}

func TestVerifyPlaceholderRefused(t *testing.T) {
	oracle := NewSimulatedOracle(0, 1, nil)
	engine := NewEngine(Document{ID: "voter-id", Type: "Voter ID"}, oracle)

	if err := engine.Verify(); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
}

func TestVerifyWhileVerifyingIgnored(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	settled := engine.Settled()

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify during verifying: %v", err)
	}
	if engine.Settled() != settled {
		t.Fatal("ignored verify restarted the episode")
	}
	waitSettled(t, engine)
}

func TestVerifiedIsTerminal(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	waitSettled(t, engine)

	if err := engine.Verify(); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestProgressNonDecreasingWithinEpisode(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	last := -1
	deadline := time.After(settleTimeout)
	for {
		doc := engine.Snapshot()
		if doc.Progress < last {
			t.Fatalf("progress decreased from %d to %d", last, doc.Progress)
		}
		if doc.Progress > progressMax {
			t.Fatalf("progress %d exceeds clamp", doc.Progress)
		}
		last = doc.Progress
		if doc.Status != StatusVerifying {
			return
		}
		select {
		case <-deadline:
			t.Fatal("verification did not settle in time")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestClearCancelsInFlightCheck(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	doc := engine.Clear()
	if doc.Filename != "" || doc.Status != StatusPending || doc.Progress != 0 {
		t.Fatalf("expected empty placeholder, got %+v", doc)
	}

	// The cancelled check must not resurrect the old episode.
	time.Sleep(80 * time.Millisecond)
	if got := engine.Snapshot(); got.Status != StatusPending || got.Progress != 0 {
		t.Fatalf("stale task mutated cleared document: %+v", got)
	}
}

func TestUploadReplacesAndRestartsMachine(t *testing.T) {
	engine := newTestEngine(t, 1)

	if err := engine.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	waitSettled(t, engine)
	if got := engine.Snapshot(); got.Status != StatusVerified {
		t.Fatalf("expected verified, got %s", got.Status)
	}

	doc := engine.Upload("replacement.pdf")
	if doc.Filename != "replacement.pdf" || doc.Status != StatusPending || doc.Progress != 0 {
		t.Fatalf("expected fresh pending document, got %+v", doc)
	}

	// The replacement goes through the machine again.
	if err := engine.Verify(); err != nil {
		t.Fatalf("verify replacement: %v", err)
	}
	waitSettled(t, engine)
}
