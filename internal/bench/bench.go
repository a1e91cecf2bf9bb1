package bench

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/zoobzio/clockz"
)

// ErrNoIterations is returned when a run is asked for fewer than one iteration.
var ErrNoIterations = errors.New("iterations must be positive")

// Case is a named operation to time. Fn is called once per iteration and
// should return an error only when the mapping itself failed.
type Case struct {
	Name string
	Fn   func() error
}

// Result is the outcome of timing one Case.
type Result struct {
	Name       string
	Iterations int
	Elapsed    time.Duration
}

// PerOp returns the mean time spent in one iteration.
func (r Result) PerOp() time.Duration {
	if r.Iterations <= 0 {
		return 0
	}

	return r.Elapsed / time.Duration(r.Iterations)
}

// Runner times cases with a fixed iteration count.
type Runner struct {
	iterations int
	clock      clockz.Clock
}

// NewRunner creates a Runner executing every case iterations times.
func NewRunner(iterations int) *Runner {
	return &Runner{iterations: iterations}
}

// WithClock sets a custom clock for testing.
func (r *Runner) WithClock(clock clockz.Clock) *Runner {
	r.clock = clock
	return r
}

func (r *Runner) getClock() clockz.Clock {
	if r.clock == nil {
		return clockz.RealClock
	}

	return r.clock
}

// Run times c. The first failing iteration aborts the run.
func (r *Runner) Run(c Case) (Result, error) {
	if r.iterations < 1 {
		return Result{}, ErrNoIterations
	}

	clock := r.getClock()
	start := clock.Now()

	for i := range r.iterations {
		if err := c.Fn(); err != nil {
			return Result{}, fmt.Errorf("%s: iteration %d: %w", c.Name, i, err)
		}
	}

	return Result{Name: c.Name, Iterations: r.iterations, Elapsed: clock.Since(start)}, nil
}

// RunAll times every case in order and stops at the first failure.
func (r *Runner) RunAll(cases []Case) ([]Result, error) {
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		res, err := r.Run(c)
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}

// Report writes results as an aligned table. Ratios are relative to the
// first result.
func Report(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "case\titerations\telapsed\tper op\tratio")

	var base time.Duration
	if len(results) > 0 {
		base = results[0].PerOp()
	}

	for _, res := range results {
		ratio := "-"
		if base > 0 {
			ratio = fmt.Sprintf("%.2fx", float64(res.PerOp())/float64(base))
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", res.Name, res.Iterations, res.Elapsed, res.PerOp(), ratio)
	}

	return tw.Flush()
}
