package segment

import (
	"context"
	"net/http"
	"time"

	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/source"
	"github.com/spf13/viper"
)

// Locator finds how many segments a stream has.
type Locator struct {
	Client Doer

	// Retries is the number of extra attempts for a probe that failed in transit.
	Retries    int
	Backoff    time.Duration
	MaxBackoff time.Duration

	// Timeout bounds one probe request, Deadline the whole Locate call.
	Timeout  time.Duration
	Deadline time.Duration
}

// NewLocator returns a Locator configured from the probe.* settings.
func NewLocator(client Doer) *Locator {
	return &Locator{
		Client:     client,
		Retries:    viper.GetInt(key.ProbeRetries),
		Backoff:    viper.GetDuration(key.ProbeBackoff),
		MaxBackoff: viper.GetDuration(key.ProbeMaxBackoff),
		Timeout:    viper.GetDuration(key.ProbeTimeout),
		Deadline:   viper.GetDuration(key.ProbeDeadline),
	}
}

// Locate probes segment 0, 1, 2, ... in order and returns the first index that
// the server cleanly reports as missing. Zero is a valid answer.
//
// Transport errors, 5xx and 429 are retried. When retries run out, or the
// deadline passes, a *ProbeError is returned instead of a count.
func (l *Locator) Locate(ctx context.Context, stream source.Stream) (int, error) {
	if l.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Deadline)
		defer cancel()
	}

	for index := 0; ; index++ {
		exists, err := l.probe(ctx, stream, index)
		if err != nil {
			return index, err
		}
		if !exists {
			log.With(log.Fields{"stream": stream.String(), "count": index}).Info("located segments")
			return index, nil
		}
	}
}

func (l *Locator) probe(ctx context.Context, stream source.Stream, index int) (bool, error) {
	url := stream.SegmentURL(index)

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= l.Retries; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, attempt, l.Backoff, l.MaxBackoff); err != nil {
				return false, &ProbeError{Index: index, Attempts: attempts, Err: err}
			}
		}
		if err := ctx.Err(); err != nil {
			return false, &ProbeError{Index: index, Attempts: attempts, Err: err}
		}

		attempts++
		code, err := l.head(ctx, url)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return false, &ProbeError{Index: index, Attempts: attempts, Err: ctx.Err()}
			}
			lastErr = err
		case success(code):
			return true, nil
		case transientStatus(code):
			lastErr = &StatusError{URL: url, Code: code}
		default:
			return false, nil
		}

		log.With(log.Fields{"index": index, "attempt": attempts}).Warnf("probe failed: %v", lastErr)
	}

	return false, &ProbeError{Index: index, Attempts: attempts, Err: lastErr}
}

func (l *Locator) head(ctx context.Context, url string) (int, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}
