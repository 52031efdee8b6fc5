package ledger

import (
	"context"
	"encoding/hex"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
)

// ErrPartyRequired occurs when a vote is recorded without a party identifier.
var ErrPartyRequired = errors.New("party id is required")

// ErrVoterRequired occurs when a vote is recorded without a voter identifier.
var ErrVoterRequired = errors.New("voter id is required")

// VoteRecord captures the outcome of a settled vote.
type VoteRecord struct {
	ID         string
	PartyID    string
	VoterID    string
	TxHash     string
	RecordedAt time.Time
}

// Ledger defines the contract implemented by settlement backends. The demo
// deployment uses the in-memory backend; Postgres provides a durable one.
// Intentionally append-only: resetting a ballot never reverses a recorded
// vote, so the same voter may appear more than once.
type Ledger interface {
	RecordVote(ctx context.Context, partyID, voterID string) (VoteRecord, error)
	Tally(ctx context.Context) (map[string]int64, error)
}

// hasher derives settlement transaction hashes. The randomness source is
// injected so tests can pin hashes.
type hasher struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newHasher(rng *rand.Rand) *hasher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &hasher{rng: rng}
}

// txHash produces a 0x-prefixed 40-hex-char transaction identifier from the
// vote contents plus a random nonce, Keccak-256 truncated to 20 bytes.
func (h *hasher) txHash(partyID, voterID string) string {
	h.mu.Lock()
	var nonce [8]byte
	h.rng.Read(nonce[:])
	h.mu.Unlock()

	digest := sha3.NewLegacyKeccak256()
	digest.Write([]byte(partyID))
	digest.Write([]byte(voterID))
	digest.Write(nonce[:])
	sum := digest.Sum(nil)
	return "0x" + hex.EncodeToString(sum[:20])
}
