package thermal

import (
	"errors"
	"fmt"
)

// Convert runs the single linear pass over one decoded image: validate the
// calibration, then for each pixel in row-major order convert the raw code
// and feed the temperature to both the aggregator and the row sink. Pixels
// whose conversion fails the formula's domain are skipped and counted, per
// the documented tolerance for FLIR edge artifacts; any other error aborts.
//
// The returned Summary is only valid when err is nil - a run that did not
// complete the full pass must not have its summary persisted.
func Convert(g RawGrid, cal Calibration, sink RowSink) (Summary, error) {
	if err := cal.Validate(); err != nil {
		return Summary{}, err
	}

	convert, err := cal.Converter()
	if err != nil {
		return Summary{}, err
	}

	agg := NewAggregator()

	for i, raw := range g.Values {
		tempC, err := convert(raw)
		if err != nil {
			if !errors.Is(err, ErrConversionDomain) {
				return Summary{}, fmt.Errorf("pixel %d: %w", i, err)
			}
			if err := agg.Skip(); err != nil {
				return Summary{}, err
			}
			continue
		}

		if err := agg.Observe(tempC); err != nil {
			return Summary{}, err
		}
		x, y := g.XY(i)
		if err := sink.WriteRow(x, y, tempC); err != nil {
			return Summary{}, fmt.Errorf("row (%d,%d): %w", x, y, err)
		}
	}

	stats, err := agg.Finalize()
	if err != nil {
		return Summary{}, err
	}

	return NewSummary(g, cal, stats), nil
}
