package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/vizforge-org/vizforge/table"
)

// ============================================================================
// DETECTION METHODS
// ============================================================================
// Each method scans the non-null samples of one numeric column and returns
// raw candidates. Methods are pure functions of (samples, thresholds) and
// never see each other's output — merging is the resolver's job.
// ============================================================================

// ----------------------------------------------------------------------------
// Shared statistics

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation. Returns 0 for fewer than two
// values or a constant series.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// quantile computes the q-th quantile (0..1) with linear interpolation
// between closest ranks, matching the usual percentile definition.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func values(samples []table.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// ----------------------------------------------------------------------------
// Z-score

// detectZScore flags samples whose distance from the mean exceeds threshold
// sample standard deviations. A constant column (sigma = 0) produces no
// candidates; that is a degenerate input, not an error.
func detectZScore(samples []table.Sample, threshold float64) []candidate {
	vals := values(samples)
	mu := mean(vals)
	sigma := sampleStdDev(vals)
	if sigma == 0 {
		return nil
	}

	var out []candidate
	for _, s := range samples {
		z := (s.Value - mu) / sigma
		abs := math.Abs(z)
		if abs <= threshold {
			continue
		}
		sev := SeverityMedium
		if abs >= threshold+1 {
			sev = SeverityHigh
		}
		out = append(out, candidate{
			row:      s.Index,
			value:    s.Value,
			method:   MethodZScore,
			score:    abs,
			norm:     normalize(abs, threshold),
			severity: sev,
			label:    fmt.Sprintf("z=%.1f", z),
		})
	}
	return out
}

// ----------------------------------------------------------------------------
// IQR (Tukey fences)

// detectIQR flags samples outside the Tukey fences Q1-k*IQR and Q3+k*IQR.
// Severity is high outside the extreme fences at 3*IQR. A zero IQR produces
// no candidates.
func detectIQR(samples []table.Sample, multiplier float64) []candidate {
	vals := values(samples)
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return nil
	}

	var out []candidate
	for _, s := range samples {
		// Distance outside the quartile, in IQR units. Values inside the
		// box score <= 0; a candidate needs distance > multiplier.
		var dist float64
		switch {
		case s.Value > q3:
			dist = (s.Value - q3) / iqr
		case s.Value < q1:
			dist = (q1 - s.Value) / iqr
		}
		if dist <= multiplier {
			continue
		}
		sev := SeverityMedium
		if dist >= 3 {
			sev = SeverityHigh
		}
		out = append(out, candidate{
			row:      s.Index,
			value:    s.Value,
			method:   MethodIQR,
			score:    dist,
			norm:     normalize(dist, multiplier),
			severity: sev,
			label:    fmt.Sprintf("%.1f", s.Value),
		})
	}
	return out
}

// ----------------------------------------------------------------------------
// Min/Max

// detectMinMax always flags the single minimum and single maximum (first
// occurrence wins on ties). These are labels, not outlier flags, so severity
// is fixed medium. Fewer than two distinct values produces nothing — the
// extremes would be uninformative.
func detectMinMax(samples []table.Sample) []candidate {
	if len(samples) == 0 {
		return nil
	}
	distinct := make(map[float64]struct{}, len(samples))
	minS, maxS := samples[0], samples[0]
	for _, s := range samples {
		distinct[s.Value] = struct{}{}
		if s.Value < minS.Value {
			minS = s
		}
		if s.Value > maxS.Value {
			maxS = s
		}
	}
	if len(distinct) < 2 {
		return nil
	}

	const minmaxNorm = 0.25 // annotations, not outlier strength
	return []candidate{
		{
			row: maxS.Index, value: maxS.Value, method: MethodMinMax,
			score: maxS.Value, norm: minmaxNorm, severity: SeverityMedium,
			label: fmt.Sprintf("Max: %.1f", maxS.Value),
		},
		{
			row: minS.Index, value: minS.Value, method: MethodMinMax,
			score: minS.Value, norm: minmaxNorm, severity: SeverityMedium,
			label: fmt.Sprintf("Min: %.1f", minS.Value),
		},
	}
}

// ----------------------------------------------------------------------------
// Changepoint (sliding-window mean shift)

// detectChangepoint compares the mean of the trailing window ending at
// sample i with the mean of the leading window starting at i+1, scoring the
// shift against the column's overall sample standard deviation. The flagged
// boundary is the trailing window's last row. Consecutive flagged boundaries
// collapse to the peak-score row so one shift yields one boundary.
func detectChangepoint(samples []table.Sample, window int, threshold float64) []candidate {
	n := len(samples)
	if window < 2 || n < 2*window {
		return nil
	}
	vals := values(samples)
	sigma := sampleStdDev(vals)
	if sigma == 0 {
		return nil
	}

	type boundary struct {
		pos   int // position in samples
		score float64
		up    bool
	}
	var flagged []boundary
	for i := window - 1; i <= n-window-1; i++ {
		left := mean(vals[i-window+1 : i+1])
		right := mean(vals[i+1 : i+1+window])
		shift := right - left
		score := math.Abs(shift) / sigma
		if score > threshold {
			flagged = append(flagged, boundary{pos: i, score: score, up: shift > 0})
		}
	}

	// Non-maximum suppression over consecutive positions.
	var peaks []boundary
	for i := 0; i < len(flagged); {
		j := i
		best := flagged[i]
		for j+1 < len(flagged) && flagged[j+1].pos == flagged[j].pos+1 {
			j++
			if flagged[j].score > best.score {
				best = flagged[j]
			}
		}
		peaks = append(peaks, best)
		i = j + 1
	}

	out := make([]candidate, 0, len(peaks))
	for _, b := range peaks {
		sev := SeverityMedium
		if b.score >= threshold+1 {
			sev = SeverityHigh
		}
		direction := "increase"
		if !b.up {
			direction = "decrease"
		}
		out = append(out, candidate{
			row:      samples[b.pos].Index,
			value:    samples[b.pos].Value,
			method:   MethodChangepoint,
			score:    b.score,
			norm:     normalize(b.score, threshold),
			severity: sev,
			label:    fmt.Sprintf("Shift: %s", direction),
		})
	}
	return out
}
