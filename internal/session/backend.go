package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthBackend authenticates credentials against an external identity
// provider. The simulated stand-in below always succeeds; a real backend can
// be substituted without touching the session workflow.
type AuthBackend interface {
	Authenticate(ctx context.Context, creds Credentials) (Identity, error)
}

// SimulatedBackend fabricates a verified identity for any credentials after a
// fixed latency. No credential validation is performed.
type SimulatedBackend struct {
	latency time.Duration
}

// NewSimulatedBackend builds the demo auth backend.
func NewSimulatedBackend(latency time.Duration) *SimulatedBackend {
	return &SimulatedBackend{latency: latency}
}

// Authenticate waits out the simulated round trip, then derives a
// deterministic identity from the email so repeated logins for the same
// address produce the same voter ID. No wallet address is assigned here.
func (b *SimulatedBackend) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	if err := wait(ctx, b.latency); err != nil {
		return Identity{}, err
	}
	return Identity{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+creds.Email)).String(),
		DisplayName: displayNameForEmail(creds.Email),
		Email:       creds.Email,
		IsVerified:  true,
	}, nil
}

// displayNameForEmail turns the local part of an address into a readable
// name: "jane.doe@example.com" becomes "Jane Doe".
func displayNameForEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		local = email
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(words) == 0 {
		return local
	}
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
