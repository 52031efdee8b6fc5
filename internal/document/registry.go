package document

import (
	"errors"
	"sync"
)

var (
	// ErrUnknownDocument occurs when an operation names a document slot the
	// wallet does not have.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrFilenameRequired occurs when an upload carries no filename.
	ErrFilenameRequired = errors.New("filename is required")
)

// placeholders are the document slots every wallet starts with.
var placeholders = []Document{
	{ID: "voter-id", Type: "Voter ID", Status: StatusPending},
	{ID: "national-id", Type: "National ID", Status: StatusPending},
	{ID: "driving-license", Type: "Driving License", Status: StatusPending},
}

// Registry owns the document wallets, one set of engines per voter. Engines
// for a voter are created lazily as placeholders and torn down, with their
// scheduled tasks, when the wallet or the registry is dropped.
type Registry struct {
	oracle Oracle
	opts   []EngineOption

	mu      sync.Mutex
	wallets map[string][]*Engine
}

// NewRegistry builds a registry using the given oracle for every engine.
func NewRegistry(oracle Oracle, opts ...EngineOption) *Registry {
	return &Registry{
		oracle:  oracle,
		opts:    opts,
		wallets: make(map[string][]*Engine),
	}
}

// List returns the voter's documents in their fixed slot order, creating the
// placeholder wallet on first touch.
func (r *Registry) List(voterID string) []Document {
	r.mu.Lock()
	engines := r.walletLocked(voterID)
	r.mu.Unlock()

	docs := make([]Document, len(engines))
	for i, engine := range engines {
		docs[i] = engine.Snapshot()
	}
	return docs
}

// Upload stores a file into the named slot, replacing any previous upload
// and cancelling an in-flight verification.
func (r *Registry) Upload(voterID, docID, filename string) (Document, error) {
	if filename == "" {
		return Document{}, ErrFilenameRequired
	}
	engine, err := r.engine(voterID, docID)
	if err != nil {
		return Document{}, err
	}
	return engine.Upload(filename), nil
}

// Verify starts a verification episode for the named slot.
func (r *Registry) Verify(voterID, docID string) (Document, error) {
	engine, err := r.engine(voterID, docID)
	if err != nil {
		return Document{}, err
	}
	if err := engine.Verify(); err != nil {
		return Document{}, err
	}
	return engine.Snapshot(), nil
}

// Delete clears the named slot back to a placeholder.
func (r *Registry) Delete(voterID, docID string) (Document, error) {
	engine, err := r.engine(voterID, docID)
	if err != nil {
		return Document{}, err
	}
	return engine.Clear(), nil
}

// Engine exposes the engine for the named slot, mainly so callers can wait
// on Settled.
func (r *Registry) Engine(voterID, docID string) (*Engine, error) {
	return r.engine(voterID, docID)
}

// DropWallet tears down a voter's wallet, cancelling all scheduled tasks.
func (r *Registry) DropWallet(voterID string) {
	r.mu.Lock()
	engines := r.wallets[voterID]
	delete(r.wallets, voterID)
	r.mu.Unlock()

	for _, engine := range engines {
		engine.Close()
	}
}

// Close tears down every wallet.
func (r *Registry) Close() {
	r.mu.Lock()
	wallets := r.wallets
	r.wallets = make(map[string][]*Engine)
	r.mu.Unlock()

	for _, engines := range wallets {
		for _, engine := range engines {
			engine.Close()
		}
	}
}

func (r *Registry) engine(voterID, docID string) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, placeholder := range placeholders {
		if placeholder.ID == docID {
			return r.walletLocked(voterID)[i], nil
		}
	}
	return nil, ErrUnknownDocument
}

func (r *Registry) walletLocked(voterID string) []*Engine {
	engines, ok := r.wallets[voterID]
	if !ok {
		engines = make([]*Engine, len(placeholders))
		for i, placeholder := range placeholders {
			engines[i] = NewEngine(placeholder, r.oracle, r.opts...)
		}
		r.wallets[voterID] = engines
	}
	return engines
}
