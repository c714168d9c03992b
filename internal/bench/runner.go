package bench

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/squarelist"
	"github.com/hupe1980/squarelist/resource"
)

// Phase names one timed step of the workload.
type Phase string

// Workload phases in execution order.
const (
	PhaseCreate    Phase = "create"
	PhaseDelete    Phase = "delete"
	PhaseInsert    Phase = "insert"
	PhaseDupInsert Phase = "dup-insert"
	PhaseSearch    Phase = "search"
	PhaseCut       Phase = "cut-in-half"
	PhaseShrink    Phase = "shrink"
	PhaseMin       Phase = "min"
	PhaseMax       Phase = "max"
)

// Phases lists every phase in execution order.
var Phases = []Phase{
	PhaseCreate, PhaseDelete, PhaseInsert, PhaseDupInsert, PhaseSearch,
	PhaseCut, PhaseShrink, PhaseMin, PhaseMax,
}

// Check is the outcome of one sanity check.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Result holds the timings and checks of one contender at one size.
type Result struct {
	Size      int
	Contender string
	Timings   map[Phase]time.Duration
	Checks    []Check
}

// Failed returns the checks that did not pass.
func (r Result) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Report is the outcome of a whole run.
type Report struct {
	Config     Config
	Results    []Result
	Elapsed    time.Duration
	PeakMemory int64
}

// FailedChecks counts failed checks across all results.
func (r *Report) FailedChecks() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Failed())
	}
	return n
}

// Runner executes a Config.
type Runner struct {
	cfg      Config
	logger   *slog.Logger
	rc       *resource.Controller
	metrics  squarelist.MetricsCollector
	progress rate.Sometimes
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the progress logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetricsCollector attaches mc to every squarelist the runner builds.
func WithMetricsCollector(mc squarelist.MetricsCollector) RunnerOption {
	return func(r *Runner) {
		r.metrics = mc
	}
}

// NewRunner validates cfg and returns a runner for it.
func NewRunner(cfg Config, optFns ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:      cfg,
		logger:   slog.New(slog.DiscardHandler),
		rc:       resource.NewController(resource.Config{MemoryLimitBytes: cfg.MemoryLimitBytes}),
		progress: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
	for _, fn := range optFns {
		fn(r)
	}
	return r, nil
}

// Run executes every size for every contender. On error it returns the
// results gathered so far together with the error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Config: r.cfg}
	defer func() {
		report.Elapsed = time.Since(start)
		report.PeakMemory = r.rc.PeakMemoryUsage()
	}()

	sizes := r.cfg.Sizes()
	total := len(sizes) * len(r.cfg.Contenders)
	for _, size := range sizes {
		for _, name := range r.cfg.Contenders {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			res, err := r.runOne(name, size)
			if err != nil {
				return report, fmt.Errorf("%s at size %d: %w", name, size, err)
			}
			report.Results = append(report.Results, res)

			for _, c := range res.Failed() {
				r.logger.Warn("sanity check failed",
					"contender", name,
					"size", size,
					"check", c.Name,
					"detail", c.Detail,
				)
			}
			r.progress.Do(func() {
				r.logger.Info("bench progress",
					"contender", name,
					"size", size,
					"done", len(report.Results),
					"total", total,
				)
			})
		}
	}
	return report, nil
}

// sink keeps Min and Max loops from being optimised away.
var sink int

func (r *Runner) runOne(name string, size int) (Result, error) {
	res := Result{Size: size, Contender: name, Timings: make(map[Phase]time.Duration)}
	reps := r.cfg.Repetitions
	check := func(label string, ok bool, format string, args ...any) {
		c := Check{Name: label, Passed: ok}
		if !ok {
			c.Detail = fmt.Sprintf(format, args...)
		}
		res.Checks = append(res.Checks, c)
	}

	var (
		set Set
		err error
	)
	res.Timings[PhaseCreate] = timed(func() {
		set, err = NewContender(name, size,
			squarelist.WithResourceController(r.rc),
			squarelist.WithMetricsCollector(r.metrics),
		)
	})
	if err != nil {
		return res, err
	}
	defer set.Close()

	head := min(10, size)
	want := make([]int, head)
	for i := range want {
		want[i] = i + 1
	}
	got := set.Head(head)
	check("ascending after create", slices.Equal(got, want), "head %v", got)

	res.Timings[PhaseDelete] = timed(func() { spaced(size, reps, func(v int) { set.Delete(v) }) })
	check("size after deletes", set.Size() == size-reps, "size %d, want %d", set.Size(), size-reps)

	res.Timings[PhaseInsert] = timed(func() {
		spaced(size, reps, func(v int) {
			if err == nil {
				err = set.Insert(v)
			}
		})
	})
	if err != nil {
		return res, err
	}
	got = set.Head(head)
	check("ascending after re-insert", slices.Equal(got, want), "head %v", got)

	res.Timings[PhaseDupInsert] = timed(func() {
		spaced(size, reps/10, func(v int) {
			if err == nil {
				err = set.Insert(v)
			}
		})
	})
	if err != nil {
		return res, err
	}
	got = set.Head(2)
	check("duplicate head", slices.Equal(got, []int{1, 1}), "head %v", got)

	found := 0
	res.Timings[PhaseSearch] = timed(func() {
		spaced(size, reps, func(v int) {
			if set.Contains(v) {
				found++
			}
		})
	})
	check("lookups hit", found == reps, "found %d of %d", found, reps)

	res.Timings[PhaseCut] = timed(func() { set.DeleteBelow(size / 2) })
	if s, ok := set.(Shrinker); ok {
		res.Timings[PhaseShrink] = timed(func() { err = s.ShrinkWithSlackOf(0) })
		if err != nil {
			return res, err
		}
	}
	check("min after cut", set.Min() == size/2, "min %d, want %d", set.Min(), size/2)
	check("max after cut", set.Max() == size, "max %d, want %d", set.Max(), size)

	res.Timings[PhaseMin] = timed(func() {
		for range r.cfg.MinMaxRepetitions {
			sink = set.Min()
		}
	})
	res.Timings[PhaseMax] = timed(func() {
		for range r.cfg.MinMaxRepetitions {
			sink = set.Max()
		}
	})
	return res, nil
}

// spaced calls fn with reps values spread evenly over 1..size.
func spaced(size, reps int, fn func(v int)) {
	step := size / reps
	v := 1
	for range reps {
		fn(v)
		v += step
	}
}

func timed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}
