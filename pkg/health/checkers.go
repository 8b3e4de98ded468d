package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than limit goroutines are running.
func GoroutineCountCheck(limit int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, limit)
		}
		return nil
	}
}

// Pinger is implemented by connection pools such as *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck fails when p cannot be reached.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}

// CapacityCheck fails once size reaches the given fraction of limit. A
// non-positive limit disables the check.
func CapacityCheck(size func() int, limit int, fraction float64) CheckFunc {
	return func(context.Context) error {
		if limit <= 0 {
			return nil
		}
		n := size()
		if float64(n) >= float64(limit)*fraction {
			return errors.Errorf("%d of %d slots in use", n, limit)
		}
		return nil
	}
}
