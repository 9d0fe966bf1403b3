package calibration

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"gwsiren/domain/core"
	"gwsiren/domain/posterior"
)

// Record is the calibration outcome of one event: where the known true H0
// fell in that event's posterior. Under a well-specified model the
// percentiles are uniform on [0,1] across events. Records are consumed
// read-only and may arrive in any order from any number of merged batches.
type Record struct {
	EventID          core.EventID
	TrueH0           float64
	Percentile       float64
	ObservedDistance float64
}

// NewRecord scores a posterior against the event's true H0.
func NewRecord(eventID core.EventID, trueH0, observedDistance float64, p posterior.H0Posterior) Record {
	return Record{
		EventID:          eventID,
		TrueH0:           trueH0,
		Percentile:       p.CDFAt(trueH0),
		ObservedDistance: observedDistance,
	}
}

// PPCurve is the probability-probability plot data: sorted percentiles
// against their empirical CDF. A calibrated estimator tracks the diagonal.
type PPCurve struct {
	Nominal   []float64 // sorted percentiles
	Empirical []float64 // (i+1)/n at each sorted percentile
}

// PP builds the PP curve from records. Input order is irrelevant.
func PP(records []Record) PPCurve {
	ps := make([]float64, len(records))
	for i, r := range records {
		ps[i] = r.Percentile
	}
	sort.Float64s(ps)
	ecdf := make([]float64, len(ps))
	for i := range ecdf {
		ecdf[i] = float64(i+1) / float64(len(ps))
	}
	return PPCurve{Nominal: ps, Empirical: ecdf}
}

// KSStatistic returns the maximum deviation of the empirical CDF of
// percentiles from the uniform diagonal, the two-sided Kolmogorov-Smirnov
// statistic against Uniform(0,1).
func (c PPCurve) KSStatistic() float64 {
	n := len(c.Nominal)
	if n == 0 {
		return 0
	}
	d := 0.0
	for i, p := range c.Nominal {
		hi := math.Abs(float64(i+1)/float64(n) - p)
		lo := math.Abs(p - float64(i)/float64(n))
		if hi > d {
			d = hi
		}
		if lo > d {
			d = lo
		}
	}
	return d
}

// KSCriticalValue returns the asymptotic two-sided KS rejection threshold at
// confidence 1-alpha for n samples: sqrt(-ln(alpha/2) / (2n)).
func KSCriticalValue(n int, alpha float64) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(-math.Log(alpha/2) / (2 * float64(n)))
}

// Summary aggregates the percentile distribution of a record set.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	KS     float64
}

// Summarize computes distribution statistics over the records' percentiles.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, core.NewValidationError("records", "no calibration records")
	}
	ps := make([]float64, len(records))
	for i, r := range records {
		ps[i] = r.Percentile
	}
	mean, err := stats.Mean(ps)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(ps)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Count:  len(records),
		Mean:   mean,
		Median: median,
		KS:     PP(records).KSStatistic(),
	}, nil
}

// ConvergencePoint is one step of the running-combination diagnostic.
type ConvergencePoint struct {
	K       int     // number of events combined so far
	Width68 float64 // 68% central credible width of the running combination
	Mode    float64
}

// Convergence tracks how the running combined posterior narrows as events
// accumulate. For independent well-specified events the width is expected
// to shrink roughly as 1/sqrt(K); the test suite asserts the qualitative
// shrinkage, not the exponent.
func Convergence(posteriors []posterior.H0Posterior) ([]ConvergencePoint, error) {
	running, err := posterior.RunningCombine(posteriors)
	if err != nil {
		return nil, err
	}
	points := make([]ConvergencePoint, len(running))
	for i, p := range running {
		points[i] = ConvergencePoint{
			K:       i + 1,
			Width68: p.CredibleWidth(0.68),
			Mode:    p.Mode(),
		}
	}
	return points, nil
}
