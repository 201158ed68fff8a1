package password

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"
)

// Hasher is the synchronous credential primitive run by Pool.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

// ObserveFunc receives the duration of each completed operation ("hash" or "verify").
type ObserveFunc func(op string, d time.Duration)

// Pool bounds how many bcrypt computations run at once so a burst of logins
// cannot starve the rest of the server of CPU.
type Pool struct {
	hasher  Hasher
	sem     *semaphore.Weighted
	observe ObserveFunc
}

// NewPool wraps hasher with a limit of workers concurrent operations.
// A non-positive workers value defaults to the number of CPUs.
func NewPool(hasher Hasher, workers int, observe ObserveFunc) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if observe == nil {
		observe = func(string, time.Duration) {}
	}
	return &Pool{
		hasher:  hasher,
		sem:     semaphore.NewWeighted(int64(workers)),
		observe: observe,
	}
}

// Hash waits for a free worker then hashes plaintext. Cancellation only
// applies while waiting.
func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)

	start := time.Now()
	hashed, err := p.hasher.Hash(plaintext)
	p.observe("hash", time.Since(start))
	return hashed, err
}

// Verify waits for a free worker then compares plaintext against credential.
func (p *Pool) Verify(ctx context.Context, plaintext, credential string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)

	start := time.Now()
	ok := p.hasher.Verify(plaintext, credential)
	p.observe("verify", time.Since(start))
	return ok, nil
}
