package segment

import (
	"context"
	"math/rand/v2"
	"time"
)

// wait sleeps before retry number attempt (starting at 1). The delay doubles
// each attempt, is capped at max, and is jittered by ±50%.
func wait(ctx context.Context, attempt int, base, max time.Duration) error {
	d := delay(attempt, base, max)
	if d <= 0 {
		return ctx.Err()
	}
	d = time.Duration(float64(d) * (0.5 + rand.Float64()))

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func delay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if max > 0 && d >= max {
			return max
		}
	}
	if max > 0 && d > max {
		return max
	}
	return d
}
