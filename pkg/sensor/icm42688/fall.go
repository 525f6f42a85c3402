package icm42688

import "github.com/chewxy/math32"

// FallDetector recognizes the free-fall-then-impact signature of a fall
// across consecutive accelerometer samples (nominal 100 Hz). The state is
// explicit and owned by the detector value; Reset clears it.
//
// A sustained low-g interval longer than FreeFallSamples arms the
// detector; a subsequent impact above ImpactThreshold while armed confirms
// the fall. A magnitude between the two thresholds disarms and clears the
// counter, so a transient dip cannot latch the armed state.
type FallDetector struct {
	FreeFallThreshold float32 // g
	ImpactThreshold   float32 // g
	FreeFallSamples   int

	freeFallCount int
	armed         bool
}

// Update feeds one sample. It returns whether this sample confirmed a
// fall, plus the computed magnitude in g.
func (f *FallDetector) Update(x, y, z float32) (fall bool, magnitude float32) {
	magnitude = Magnitude(x, y, z)

	switch {
	case magnitude < f.FreeFallThreshold:
		f.freeFallCount++
		if f.freeFallCount > f.FreeFallSamples {
			f.armed = true
		}
	case magnitude > f.ImpactThreshold && f.armed:
		f.Reset()
		return true, magnitude
	default:
		f.Reset()
	}

	return false, magnitude
}

// Armed reports whether a free-fall window has been observed and the
// detector is waiting for an impact.
func (f *FallDetector) Armed() bool { return f.armed }

// Reset clears the free-fall counter and armed flag.
func (f *FallDetector) Reset() {
	f.freeFallCount = 0
	f.armed = false
}

// Magnitude returns the Euclidean norm of an acceleration vector in g.
func Magnitude(x, y, z float32) float32 {
	return math32.Sqrt(x*x + y*y + z*z)
}
