package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// Service owns the authenticated identity workflow: login, restore, wallet
// connection and logout. All mutations are serialized and write through to
// the injected store.
type Service struct {
	store          Store
	backend        AuthBackend
	connectLatency time.Duration
	restoreLatency time.Duration

	mu          sync.Mutex
	restoreOnce sync.Once
	rng         *rand.Rand
}

// Option tweaks service construction.
type Option func(*Service)

// WithConnectLatency sets the simulated wallet-connection delay.
func WithConnectLatency(d time.Duration) Option {
	return func(s *Service) { s.connectLatency = d }
}

// WithRestoreLatency sets the simulated cold-start delay applied to the first
// restore after process start.
func WithRestoreLatency(d time.Duration) Option {
	return func(s *Service) { s.restoreLatency = d }
}

// WithRand injects the randomness source used for wallet address assignment.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// NewService creates a session service on top of the given store and auth
// backend.
func NewService(store Store, backend AuthBackend, opts ...Option) *Service {
	s := &Service{
		store:   store,
		backend: backend,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Login authenticates through the backend, persists the resulting identity
// under a fresh session token and returns both. The identity carries no
// wallet address yet.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, Identity, error) {
	identity, err := s.backend.Authenticate(ctx, creds)
	if err != nil {
		return "", Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, token, identity); err != nil {
		return "", Identity{}, err
	}
	return token, identity, nil
}

// Restore reinstates the identity persisted under the token. A missing record
// is ErrNoSession, not a fault. The first restore after process start waits
// out the simulated storage latency once.
func (s *Service) Restore(ctx context.Context, token string) (Identity, error) {
	var waitErr error
	s.restoreOnce.Do(func() {
		waitErr = wait(ctx, s.restoreLatency)
	})
	if waitErr != nil {
		return Identity{}, waitErr
	}
	return s.store.Load(ctx, token)
}

// ConnectWallet assigns a pseudo-random wallet address to the active
// identity and re-persists it. The address is assigned at most once per
// login: a repeated call returns the existing identity unchanged and incurs
// no latency. Without an active session the call is refused with
// ErrNoSession.
func (s *Service) ConnectWallet(ctx context.Context, token string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, err := s.store.Load(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	if identity.WalletAddress != "" {
		return identity, nil
	}

	if err := wait(ctx, s.connectLatency); err != nil {
		return Identity{}, err
	}

	identity.WalletAddress = s.newWalletAddress(identity.ID)
	if err := s.store.Save(ctx, token, identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// Logout clears the session record. Logging out an already-cleared session is
// a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Delete(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}

// newWalletAddress derives a 0x-prefixed 40-hex-char address from the voter
// ID and a random nonce, Keccak-256 truncated to 20 bytes. Callers must hold
// s.mu: the rng is not safe for concurrent draws.
func (s *Service) newWalletAddress(voterID string) string {
	var nonce [8]byte
	s.rng.Read(nonce[:])

	digest := sha3.NewLegacyKeccak256()
	digest.Write([]byte("wallet:" + voterID))
	digest.Write(nonce[:])
	sum := digest.Sum(nil)
	return "0x" + hex.EncodeToString(sum[:20])
}
