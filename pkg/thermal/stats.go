package thermal

import "math"

// An Aggregator accumulates run statistics over converted temperatures in
// one forward pass, with O(1) state no matter how many pixels it sees.
// Skipped pixels are counted separately and never touch min/max/sum.
type Aggregator struct {
	count   int64
	skipped int64
	min     float64
	max     float64
	sum     float64
	closed  bool
}

// NewAggregator returns an open aggregator for a fresh run.
func NewAggregator() *Aggregator {
	return &Aggregator{min: math.Inf(1), max: math.Inf(-1)}
}

// Observe folds one converted temperature into the running statistics.
func (a *Aggregator) Observe(tempC float64) error {
	if a.closed {
		return ErrAggregatorClosed
	}
	if tempC < a.min {
		a.min = tempC
	}
	if tempC > a.max {
		a.max = tempC
	}
	a.sum += tempC
	a.count++
	return nil
}

// Skip records a pixel whose conversion failed.
func (a *Aggregator) Skip() error {
	if a.closed {
		return ErrAggregatorClosed
	}
	a.skipped++
	return nil
}

// Finalize closes the aggregator and returns the statistics snapshot.
// The mean is derived from the full sum here, rather than updated
// incrementally, so rounding error does not compound over megapixel runs.
func (a *Aggregator) Finalize() (Stats, error) {
	if a.closed {
		return Stats{}, ErrAggregatorClosed
	}
	a.closed = true

	s := Stats{Count: a.count, Skipped: a.skipped}
	if a.count > 0 {
		s.Min = a.min
		s.Max = a.max
		s.Sum = a.sum
		s.Average = a.sum / float64(a.count)
	}
	return s, nil
}

// Stats is the immutable result of one conversion run. When Count is zero
// there was no data: Min/Max/Average are meaningless and must be presented
// as "no data", not as numbers.
type Stats struct {
	Count   int64
	Skipped int64
	Min     float64
	Max     float64
	Sum     float64
	Average float64
}

// HasData reports whether any pixel survived conversion.
func (s Stats) HasData() bool { return s.Count > 0 }

// Range is the max-min spread, or 0 when there is no data.
func (s Stats) Range() float64 {
	if !s.HasData() {
		return 0
	}
	return s.Max - s.Min
}
