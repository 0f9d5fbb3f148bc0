package segment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/util"
	"github.com/spf13/viper"
)

// DefaultWorkers is used when Fetcher.Workers is not positive.
const DefaultWorkers = 16

// Result is the terminal outcome of one segment.
type Result struct {
	Index    int
	Bytes    int64
	Attempts int
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Report summarizes a FetchAll call.
type Report struct {
	Count     int
	Succeeded int
	Failed    []FailedSegment
	Bytes     int64
}

// Fetcher downloads segments through a fixed pool of workers.
type Fetcher struct {
	Client Doer

	Workers    int
	Retries    int
	Backoff    time.Duration
	MaxBackoff time.Duration

	// Timeout bounds one attempt, body included.
	Timeout time.Duration

	// OnSegment is called once per segment from the collecting goroutine.
	OnSegment func(Result)
}

// NewFetcher returns a Fetcher configured from the fetch.* settings.
func NewFetcher(client Doer) *Fetcher {
	return &Fetcher{
		Client:     client,
		Workers:    viper.GetInt(key.FetchWorkers),
		Retries:    viper.GetInt(key.FetchRetries),
		Backoff:    viper.GetDuration(key.FetchBackoff),
		MaxBackoff: viper.GetDuration(key.FetchMaxBackoff),
		Timeout:    viper.GetDuration(key.FetchSegmentTimeout),
	}
}

// FetchAll downloads segments [0, count) of stream into dir, naming each
// file after stream.SegmentName. It returns once every segment has reached a
// terminal state. When any segment failed, the report is returned together
// with a *FetchError; the segments that did succeed stay on disk.
func (f *Fetcher) FetchAll(ctx context.Context, stream source.Stream, count int, dir string) (Report, error) {
	report := Report{Count: count}
	if count <= 0 {
		return report, nil
	}

	workers := f.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = util.Min(workers, count)

	indices := make(chan int)
	results := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for index := range indices {
				results <- f.fetch(ctx, stream, index, dir)
			}
		}()
	}

	go func() {
		// every index is handed out even after cancellation so that each one
		// produces exactly one result; fetch fails fast on a done context
		for i := 0; i < count; i++ {
			indices <- i
		}
		close(indices)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.OK() {
			report.Succeeded++
			report.Bytes += result.Bytes
		} else {
			report.Failed = append(report.Failed, FailedSegment{
				Index:    result.Index,
				Attempts: result.Attempts,
				Err:      result.Err,
			})
		}

		if f.OnSegment != nil {
			f.OnSegment(result)
		}
	}

	if len(report.Failed) == 0 {
		return report, nil
	}

	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Index < report.Failed[j].Index
	})

	return report, &FetchError{
		Count:     count,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}
}

func (f *Fetcher) fetch(ctx context.Context, stream source.Stream, index int, dir string) Result {
	url := stream.SegmentURL(index)
	path := filepath.Join(dir, stream.SegmentName(index))
	result := Result{Index: index}

	for attempt := 0; attempt <= f.Retries; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, attempt, f.Backoff, f.MaxBackoff); err != nil {
				result.Err = err
				return result
			}
		}
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}

		result.Attempts++
		n, err := f.download(ctx, url, path)
		if err == nil {
			result.Bytes = n
			result.Err = nil
			return result
		}
		result.Err = err

		if ctx.Err() != nil {
			return result
		}

		var status *StatusError
		if errors.As(err, &status) && !status.Transient() {
			return result
		}

		log.With(log.Fields{"index": index, "attempt": result.Attempts}).Warnf("segment failed: %v", err)
	}

	return result
}

func (f *Fetcher) download(ctx context.Context, url, path string) (int64, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &StatusError{URL: url, Code: resp.StatusCode}
	}

	return filesystem.WriteAtomic(path, &exactReader{r: resp.Body, want: resp.ContentLength})
}

// exactReader fails with io.ErrUnexpectedEOF when the body ends before the
// announced Content-Length.
type exactReader struct {
	r    io.Reader
	want int64
	got  int64
}

func (e *exactReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	e.got += int64(n)
	if err == io.EOF && e.want >= 0 && e.got != e.want {
		return n, io.ErrUnexpectedEOF
	}
	return n, err
}
