package ballot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adi8567/ballotlytic-wizard/internal/ledger"
	"github.com/adi8567/ballotlytic-wizard/internal/notification"
	"github.com/adi8567/ballotlytic-wizard/internal/session"
)

var (
	// ErrUnknownParty occurs when a selection names a party outside the
	// static ballot.
	ErrUnknownParty = errors.New("unknown party")

	// ErrNoSelection occurs when a vote is submitted without a selected
	// party.
	ErrNoSelection = errors.New("no party selected")

	// ErrWalletRequired occurs when the voting identity has no wallet
	// address connected.
	ErrWalletRequired = errors.New("wallet address required to vote")

	// ErrAlreadySubmitted occurs on any attempt to change or resubmit a
	// settled ballot.
	ErrAlreadySubmitted = errors.New("ballot already submitted")

	// ErrSubmitInFlight occurs when a second submission races an in-flight
	// settlement for the same ballot.
	ErrSubmitInFlight = errors.New("vote submission already in progress")
)

// Service owns party selection and vote submission, one ballot per voter.
// Submission is gated on the session identity: a connected wallet address is
// required. Precondition failures are typed refusals that incur no
// settlement latency and leave no state behind.
type Service struct {
	ledger        ledger.Ledger
	notifier      notification.Notifier
	settleLatency time.Duration

	mu      sync.Mutex
	ballots map[string]*ballotState
}

type ballotState struct {
	ballot   Ballot
	inFlight bool
}

// NewService builds the ballot service on top of the settlement ledger.
func NewService(ledgerBackend ledger.Ledger, notifier notification.Notifier, settleLatency time.Duration) *Service {
	return &Service{
		ledger:        ledgerBackend,
		notifier:      notifier,
		settleLatency: settleLatency,
		ballots:       make(map[string]*ballotState),
	}
}

// Get returns the voter's current ballot, creating an empty one on first
// touch.
func (s *Service) Get(voterID string) Ballot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(voterID).ballot
}

// Select records the voter's party choice, overwriting any previous one.
// Selection is frozen once the ballot is submitted or while a submission is
// settling.
func (s *Service) Select(voterID, partyID string) (Ballot, error) {
	if !knownParty(partyID) {
		return Ballot{}, ErrUnknownParty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateLocked(voterID)
	if st.ballot.Submitted {
		return Ballot{}, ErrAlreadySubmitted
	}
	if st.inFlight {
		return Ballot{}, ErrSubmitInFlight
	}
	st.ballot.SelectedPartyID = partyID
	return st.ballot, nil
}

// Submit settles the selected vote on the ledger. Preconditions are checked
// before any latency is incurred; on success the ballot flips to submitted
// with its terminal transaction hash and a vote-cast notification is
// emitted.
func (s *Service) Submit(ctx context.Context, identity session.Identity) (Ballot, error) {
	s.mu.Lock()
	st := s.stateLocked(identity.ID)
	switch {
	case st.ballot.Submitted:
		s.mu.Unlock()
		return Ballot{}, ErrAlreadySubmitted
	case st.inFlight:
		s.mu.Unlock()
		return Ballot{}, ErrSubmitInFlight
	case st.ballot.SelectedPartyID == "":
		s.mu.Unlock()
		return Ballot{}, ErrNoSelection
	case identity.WalletAddress == "":
		s.mu.Unlock()
		return Ballot{}, ErrWalletRequired
	}
	st.inFlight = true
	partyID := st.ballot.SelectedPartyID
	s.mu.Unlock()

	record, err := s.settle(ctx, partyID, identity.ID)
	if err != nil {
		// Roll the in-flight marker back so the ballot is not left stuck.
		s.mu.Lock()
		st.inFlight = false
		s.mu.Unlock()
		return Ballot{}, err
	}

	s.mu.Lock()
	st.inFlight = false
	st.ballot.Submitted = true
	st.ballot.TransactionHash = record.TxHash
	settled := st.ballot
	s.mu.Unlock()

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindVoteCast,
			Destination: identity.Email,
			Body:        fmt.Sprintf("vote settled with transaction %s", record.TxHash),
		})
	}
	return settled, nil
}

// Reset clears the voter's local ballot so the selection UI can start over.
// It never reverses a vote already recorded on the ledger.
func (s *Service) Reset(voterID string) (Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateLocked(voterID)
	if st.inFlight {
		return Ballot{}, ErrSubmitInFlight
	}
	st.ballot = Ballot{}
	return st.ballot, nil
}

// Tally exposes the ledger's per-party vote counts.
func (s *Service) Tally(ctx context.Context) (map[string]int64, error) {
	return s.ledger.Tally(ctx)
}

func (s *Service) settle(ctx context.Context, partyID, voterID string) (ledger.VoteRecord, error) {
	if s.settleLatency > 0 {
		timer := time.NewTimer(s.settleLatency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ledger.VoteRecord{}, ctx.Err()
		}
	}
	return s.ledger.RecordVote(ctx, partyID, voterID)
}

func (s *Service) stateLocked(voterID string) *ballotState {
	st, ok := s.ballots[voterID]
	if !ok {
		st = &ballotState{}
		s.ballots[voterID] = st
	}
	return st
}
