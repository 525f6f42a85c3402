package ads1292r

// PeakDetector extracts a heart rate from one ECG acquisition window by
// R-peak detection. A sample is an R-peak candidate when it exceeds the
// amplitude threshold and both immediate neighbors; the refractory period
// suppresses double-counting of the same beat.
//
// This is deliberately simple. A production implementation would use
// Pan-Tompkins or similar, but the simple detector is deterministic and
// cheap enough for the acquisition budget.
type PeakDetector struct {
	SamplingRate int    // Hz
	Threshold    int32  // amplitude floor for a candidate peak
	Refractory   int    // minimum sample gap after an accepted peak
	DefaultRate  uint16 // reported when no peaks are found
}

// maxRRIntervals bounds the RR list per window.
const maxRRIntervals = 10

// RRIntervals returns the sample gaps between consecutive accepted
// R-peaks, at most maxRRIntervals of them. The first accepted peak anchors
// the sequence and contributes no interval.
func (p PeakDetector) RRIntervals(samples []int32) []int {
	var intervals []int
	lastPeak := -1

	for i := 2; i+2 < len(samples); i++ {
		if samples[i] > p.Threshold &&
			samples[i] > samples[i-1] &&
			samples[i] > samples[i+1] &&
			(lastPeak < 0 || i-lastPeak >= p.Refractory) {

			if lastPeak >= 0 && len(intervals) < maxRRIntervals {
				intervals = append(intervals, i-lastPeak)
			}
			lastPeak = i
		}
	}
	return intervals
}

// HeartRate converts the average RR interval of a window into beats per
// minute. A window with no detected peaks yields DefaultRate rather than
// an error: the monitor must keep producing snapshots even when the
// electrode contact is poor, and the degraded-data flag on the snapshot is
// the place where that uncertainty is surfaced.
func (p PeakDetector) HeartRate(samples []int32) uint16 {
	intervals := p.RRIntervals(samples)
	if len(intervals) == 0 {
		return p.DefaultRate
	}

	sum := 0
	for _, rr := range intervals {
		sum += rr
	}
	avg := sum / len(intervals)

	return uint16(60 * p.SamplingRate / avg)
}
