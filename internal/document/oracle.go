package document

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Oracle checks a document's authenticity and reports StatusVerified or
// StatusRejected. A rejection is a business outcome, not a fault; errors are
// reserved for transport failures and cancellation.
type Oracle interface {
	Check(ctx context.Context, doc Document) (Status, error)
}

// SimulatedOracle stands in for a real verification backend: a fixed latency
// followed by a single success-probability draw from an injected randomness
// source.
type SimulatedOracle struct {
	latency     time.Duration
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedOracle builds the demo oracle. Pass a seeded rng for
// deterministic outcomes in tests, or nil for a time-seeded one. A
// successRate of 1 or 0 forces the outcome outright.
func NewSimulatedOracle(latency time.Duration, successRate float64, rng *rand.Rand) *SimulatedOracle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedOracle{latency: latency, successRate: successRate, rng: rng}
}

// Check waits out the simulated round trip, then draws the outcome exactly
// once.
func (o *SimulatedOracle) Check(ctx context.Context, _ Document) (Status, error) {
	if o.latency > 0 {
		timer := time.NewTimer(o.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return StatusRejected, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return StatusRejected, err
	}

	o.mu.Lock()
	draw := o.rng.Float64()
	o.mu.Unlock()

	if draw < o.successRate {
		return StatusVerified, nil
	}
	return StatusRejected, nil
}
