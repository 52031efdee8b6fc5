package ledger

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger implements Ledger using PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE votes (
//	    id          UUID PRIMARY KEY,
//	    party_id    TEXT NOT NULL,
//	    voter_id    TEXT NOT NULL,
//	    tx_hash     TEXT NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL
//	);
type PostgresLedger struct {
	db     *pgxpool.Pool
	hashes *hasher
}

// NewPostgresLedger builds a Postgres-backed settlement ledger.
func NewPostgresLedger(db *pgxpool.Pool, rng *rand.Rand) *PostgresLedger {
	return &PostgresLedger{db: db, hashes: newHasher(rng)}
}

// RecordVote appends a settled vote row.
func (l *PostgresLedger) RecordVote(ctx context.Context, partyID, voterID string) (VoteRecord, error) {
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

	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return VoteRecord{}, err
	}
	_, err = l.db.Exec(ctx, `INSERT INTO votes (id, party_id, voter_id, tx_hash, recorded_at)
        VALUES ($1, $2, $3, $4, $5)`, recordID, record.PartyID, record.VoterID, record.TxHash, record.RecordedAt)
	if err != nil {
		return VoteRecord{}, err
	}
	return record, nil
}

// Tally counts recorded votes per party.
func (l *PostgresLedger) Tally(ctx context.Context) (map[string]int64, error) {
	rows, err := l.db.Query(ctx, `SELECT party_id, COUNT(*) FROM votes GROUP BY party_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			party string
			count int64
		)
		if err := rows.Scan(&party, &count); err != nil {
			return nil, err
		}
		out[party] = count
	}
	return out, rows.Err()
}
