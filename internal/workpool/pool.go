// Package workpool bounds CPU-heavy image work (decode, resize, compositing,
// text rasterization) so it cannot starve I/O-bound requests.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// Pool is a counting gate over CPU work. Work runs on the calling goroutine
// once a slot is free. A panic inside the work is reported as an internal
// error instead of crashing the process.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool with size slots. size <= 0 uses GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the number of concurrent slots.
func (p *Pool) Size() int {
	return p.size
}

// Do runs fn inside a slot.
func (p *Pool) Do(ctx context.Context, op string, fn func() error) (err error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return apperr.Wrap(apperr.KindInternal, op, "acquire worker slot", err)
	}
	defer p.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			err = apperr.Newf(apperr.KindInternal, op, "worker panic: %v", r)
		}
	}()

	return fn()
}

// Run is Do for work that produces a value.
func Run[T any](ctx context.Context, p *Pool, op string, fn func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, op, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
