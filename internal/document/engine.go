package document

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	progressStep     = 5
	progressMax      = 100
	progressInterval = 150 * time.Millisecond
)

var (
	// ErrNoFile occurs when verification is requested on a placeholder that
	// has no uploaded file.
	ErrNoFile = errors.New("document has no uploaded file")

	// ErrAlreadyVerified occurs when verification is requested on a document
	// that already reached the terminal verified state.
	ErrAlreadyVerified = errors.New("document already verified")
)

// Engine drives the verification state machine for a single document. Every
// verifying episode owns two scheduled tasks: the oracle check that settles
// the outcome, and a cosmetic progress ticker. Both are cancelled whenever
// the document is replaced, cleared or the engine is closed, so a stale task
// can never mutate state it no longer owns.
type Engine struct {
	oracle   Oracle
	interval time.Duration

	mu      sync.Mutex
	doc     Document
	episode int
	cancel  context.CancelFunc
	settled chan struct{}
}

// EngineOption tweaks engine construction.
type EngineOption func(*Engine)

// WithProgressInterval overrides the progress tick period, mainly for tests.
func WithProgressInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.interval = d }
}

// NewEngine builds an engine owning the given document.
func NewEngine(doc Document, oracle Oracle, opts ...EngineOption) *Engine {
	e := &Engine{
		oracle:   oracle,
		interval: progressInterval,
		doc:      doc,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current document state.
func (e *Engine) Snapshot() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Settled returns a channel closed when the current verifying episode
// resolves. If no episode is running, the returned channel is already
// closed.
func (e *Engine) Settled() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.settled != nil {
		return e.settled
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Verify starts a verifying episode. It is allowed from pending and
// rejected; a call while already verifying is ignored, and a call on a
// verified document is refused since verified is terminal for the instance.
func (e *Engine) Verify() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.doc.Status {
	case StatusVerifying:
		return nil
	case StatusVerified:
		return ErrAlreadyVerified
	}
	if e.doc.Filename == "" {
		return ErrNoFile
	}

	e.cancelEpisodeLocked()
	e.doc.Status = StatusVerifying
	e.doc.Progress = 0
	e.episode++
	e.settled = make(chan struct{})

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	go e.runProgress(runCtx, e.episode)
	go e.runCheck(runCtx, e.episode, e.doc)
	return nil
}

// Upload replaces the document's file. Any in-flight check is cancelled, and
// the status machine restarts from pending, even for a previously verified
// or rejected document.
func (e *Engine) Upload(filename string) Document {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelEpisodeLocked()
	e.doc.Filename = filename
	e.doc.Status = StatusPending
	e.doc.Progress = 0
	return e.doc
}

// Clear deletes the uploaded file, returning the document to an empty
// placeholder and cancelling any in-flight check.
func (e *Engine) Clear() Document {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelEpisodeLocked()
	e.doc.Filename = ""
	e.doc.Status = StatusPending
	e.doc.Progress = 0
	return e.doc
}

// Close cancels any in-flight episode. A document caught mid-verification
// falls back to pending rather than being left stuck.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelEpisodeLocked()
	if e.doc.Status == StatusVerifying {
		e.doc.Status = StatusPending
		e.doc.Progress = 0
	}
}

// cancelEpisodeLocked invalidates the current episode. Tasks already past
// their context check are fenced off by the episode counter.
func (e *Engine) cancelEpisodeLocked() {
	e.episode++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.settled != nil {
		close(e.settled)
		e.settled = nil
	}
}

// runCheck asks the oracle for the outcome and writes the terminal status
// atomically with respect to this engine.
func (e *Engine) runCheck(ctx context.Context, episode int, doc Document) {
	outcome, err := e.oracle.Check(ctx, doc)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.episode != episode || e.doc.Status != StatusVerifying {
		return
	}
	if err != nil {
		return
	}
	e.doc.Status = outcome
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.settled != nil {
		close(e.settled)
		e.settled = nil
	}
}

// runProgress advances the cosmetic progress counter while the episode is
// verifying. Progress may reach 100 before or after the outcome settles; the
// two tasks share no ordering guarantee.
func (e *Engine) runProgress(ctx context.Context, episode int) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.episode != episode || e.doc.Status != StatusVerifying {
				e.mu.Unlock()
				return
			}
			e.doc.Progress += progressStep
			if e.doc.Progress > progressMax {
				e.doc.Progress = progressMax
			}
			e.mu.Unlock()
		}
	}
}
