package segment

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etldl/etldl/source"
)

const mediaID = "w1234"

// fixture serves media_<id>_<i>.ts for i < len(segments).
type fixture struct {
	segments [][]byte

	// fail maps an index to the status it answers with. Negative counts
	// are permanent, positive ones are consumed per request.
	mu   sync.Mutex
	fail map[int]failure

	// stall holds indices whose body stops after half its bytes until the
	// client gives up. truncate maps an index to the number of responses
	// that end early while still announcing the full length.
	stall    map[int]bool
	truncate map[int]int

	delay time.Duration

	gets      atomic.Int64
	heads     atomic.Int64
	inFlight  atomic.Int64
	maxFlight atomic.Int64

	probed []int
}

type failure struct {
	status int
	times  int
}

func newFixture(sizes ...int) *fixture {
	f := &fixture{
		fail:     make(map[int]failure),
		stall:    make(map[int]bool),
		truncate: make(map[int]int),
	}
	for i, size := range sizes {
		seg := make([]byte, size)
		for j := range seg {
			seg[j] = byte(i*31 + j)
		}
		f.segments = append(f.segments, seg)
	}
	return f
}

func (f *fixture) failAlways(index, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[index] = failure{status: status, times: -1}
}

func (f *fixture) failTimes(index, status, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[index] = failure{status: status, times: times}
}

func (f *fixture) stallBody(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stall[index] = true
}

// truncateBody cuts the body of index short; a negative times is permanent.
func (f *fixture) truncateBody(index, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncate[index] = times
}

// short reports whether this response for index should stall or end early.
func (f *fixture) short(index int) (stall, truncate bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stall[index] {
		return true, false
	}
	times, ok := f.truncate[index]
	if !ok || times == 0 {
		return false, false
	}
	if times > 0 {
		f.truncate[index] = times - 1
	}
	return false, true
}

func (f *fixture) failure(index int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl, ok := f.fail[index]
	if !ok || fl.times == 0 {
		return 0, false
	}
	if fl.times > 0 {
		fl.times--
		f.fail[index] = fl
	}
	return fl.status, true
}

func (f *fixture) joined(count int) []byte {
	var out []byte
	for _, seg := range f.segments[:count] {
		out = append(out, seg...)
	}
	return out
}

func (f *fixture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	prefix := fmt.Sprintf("media_%s_", mediaID)
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".ts") {
		http.NotFound(w, r)
		return
	}
	index, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".ts"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if r.Method == http.MethodHead {
		f.heads.Add(1)
		f.mu.Lock()
		f.probed = append(f.probed, index)
		f.mu.Unlock()
	} else {
		f.gets.Add(1)
		n := f.inFlight.Add(1)
		defer f.inFlight.Add(-1)
		for {
			max := f.maxFlight.Load()
			if n <= max || f.maxFlight.CompareAndSwap(max, n) {
				break
			}
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}

	if status, ok := f.failure(index); ok {
		w.WriteHeader(status)
		return
	}
	if index >= len(f.segments) {
		http.NotFound(w, r)
		return
	}

	seg := f.segments[index]
	w.Header().Set("Content-Length", strconv.Itoa(len(seg)))
	if r.Method != http.MethodGet {
		return
	}

	stall, truncate := f.short(index)
	switch {
	case stall:
		_, _ = w.Write(seg[:len(seg)/2])
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	case truncate:
		// the server drops the connection once the handler returns short
		_, _ = w.Write(seg[:len(seg)/2])
	default:
		_, _ = w.Write(seg)
	}
}

func (f *fixture) start() (*httptest.Server, source.Stream) {
	srv := httptest.NewServer(f)
	return srv, source.Stream{Endpoint: srv.URL, MediaID: mediaID}
}
