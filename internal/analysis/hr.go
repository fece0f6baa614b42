package analysis

// HRDetector estimates heart rate sample by sample from a live trace.
// It reports a rate on every upward threshold crossing that follows the
// previous beat by more than the refractory period.
type HRDetector struct {
	threshold  float64
	refractory float64

	lastPeak    float64
	havePeak    bool
	lastValue   float64
	initialized bool
}

// NewHRDetector uses an absolute threshold in mV and a 200 ms refractory period
func NewHRDetector(threshold float64) *HRDetector {
	return &HRDetector{
		threshold:  threshold,
		refractory: 0.2,
	}
}

// Process consumes one sample at time t seconds and returns the bpm when a
// new beat completes an RR interval.
func (h *HRDetector) Process(value, t float64) (float64, bool) {
	if !h.initialized {
		h.initialized = true
		h.lastValue = value
		return 0, false
	}

	defer func() { h.lastValue = value }()

	if !(h.lastValue < h.threshold && value >= h.threshold) {
		return 0, false
	}
	if h.havePeak && t-h.lastPeak <= h.refractory {
		return 0, false
	}

	prev, had := h.lastPeak, h.havePeak
	h.lastPeak, h.havePeak = t, true
	if !had {
		return 0, false
	}
	return 60 / (t - prev), true
}

// Reset forgets all history
func (h *HRDetector) Reset() {
	*h = HRDetector{threshold: h.threshold, refractory: h.refractory}
}
