package querymetrics

import (
	"sort"
	"sync"
	"time"

	"github.com/djmax1976/nuvana-backoffice/pkg/metrics"
)

type key struct {
	model  string
	action string
}

type stat struct {
	count     int64
	total     time.Duration
	max       time.Duration
	slow      int64
	nPlusOne  int64
	burstHits []time.Time
}

// Options tunes the in-process query statistics.
type Options struct {
	// SlowThreshold marks queries slower than this as slow.
	SlowThreshold time.Duration
	// BurstWindow is the sliding window for the N+1 heuristic.
	BurstWindow time.Duration
	// BurstThreshold is how many same-key queries inside the window
	// count as an N+1 suspect.
	BurstThreshold int
}

// Recorder keeps rolling-window query statistics per model+action pair and
// mirrors observations into prometheus. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	prom  *metrics.QueryMetrics
	opts  Options
	stats map[key]*stat
	now   func() time.Time
}

// NewRecorder builds a recorder. A nil prometheus sink disables export but
// keeps the in-process statistics.
func NewRecorder(prom *metrics.QueryMetrics, opts Options) *Recorder {
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = 200 * time.Millisecond
	}
	if opts.BurstWindow <= 0 {
		opts.BurstWindow = time.Second
	}
	if opts.BurstThreshold <= 0 {
		opts.BurstThreshold = 10
	}
	return &Recorder{
		prom:  prom,
		opts:  opts,
		stats: make(map[key]*stat),
		now:   time.Now,
	}
}

// Observe records one query for the model+action pair.
func (r *Recorder) Observe(model, action string, duration time.Duration) {
	if r == nil {
		return
	}
	r.prom.ObserveQuery(model, action, duration)

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{model: model, action: action}
	s, ok := r.stats[k]
	if !ok {
		s = &stat{}
		r.stats[k] = s
	}

	s.count++
	s.total += duration
	if duration > s.max {
		s.max = duration
	}
	if duration >= r.opts.SlowThreshold {
		s.slow++
		r.prom.IncSlow(model, action)
	}

	now := r.now()
	cutoff := now.Add(-r.opts.BurstWindow)
	kept := s.burstHits[:0]
	for _, hit := range s.burstHits {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}
	s.burstHits = append(kept, now)
	if len(s.burstHits) == r.opts.BurstThreshold {
		s.nPlusOne++
		r.prom.IncNPlusOne(model, action)
	}
}

// Stat is a point-in-time view of one model+action pair.
type Stat struct {
	Model          string        `json:"model"`
	Action         string        `json:"action"`
	Count          int64         `json:"count"`
	AvgDuration    time.Duration `json:"avg_duration"`
	MaxDuration    time.Duration `json:"max_duration"`
	SlowCount      int64         `json:"slow_count"`
	NPlusOneBursts int64         `json:"n_plus_one_bursts"`
}

// Snapshot returns the accumulated statistics sorted by model then action.
func (r *Recorder) Snapshot() []Stat {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Stat, 0, len(r.stats))
	for k, s := range r.stats {
		avg := time.Duration(0)
		if s.count > 0 {
			avg = s.total / time.Duration(s.count)
		}
		out = append(out, Stat{
			Model:          k.model,
			Action:         k.action,
			Count:          s.count,
			AvgDuration:    avg,
			MaxDuration:    s.max,
			SlowCount:      s.slow,
			NPlusOneBursts: s.nPlusOne,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Model != out[j].Model {
			return out[i].Model < out[j].Model
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// Reset clears the accumulated statistics. Prometheus counters are
// cumulative and are not touched.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = make(map[key]*stat)
}
