package ledger

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu      sync.RWMutex
	records []VoteRecord
	tallies map[string]int64
	hashes  *hasher
}

// NewInMemory creates a concurrency-safe in-memory ledger. Pass a seeded rng
// for deterministic transaction hashes in tests, or nil for a time-seeded one.
func NewInMemory(rng *rand.Rand) Ledger {
	return &inMemoryLedger{
		tallies: make(map[string]int64),
		hashes:  newHasher(rng),
	}
}

func (l *inMemoryLedger) RecordVote(_ context.Context, partyID, voterID string) (VoteRecord, error) {
	if partyID == "" {
		return VoteRecord{}, ErrPartyRequired
	}
	if voterID == "" {
		return VoteRecord{}, ErrVoterRequired
	}

	record := VoteRecord{
		ID:         uuid.NewString(),
		PartyID:    partyID,
		VoterID:    voterID,
		TxHash:     l.hashes.txHash(partyID, voterID),
		RecordedAt: time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	l.tallies[partyID]++
	return record, nil
}

func (l *inMemoryLedger) Tally(_ context.Context) (map[string]int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int64, len(l.tallies))
	for party, count := range l.tallies {
		out[party] = count
	}
	return out, nil
}
