package debugui

// History is a fixed-size ring of samples for plotting.
type History struct {
	samples []float32
	offset  int
	filled  int
}

func NewHistory(size int) *History {
	return &History{samples: make([]float32, max(size, 1))}
}

// Push records a sample, overwriting the oldest once full.
func (h *History) Push(v float32) {
	h.samples[h.offset] = v
	h.offset = (h.offset + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Len returns the number of recorded samples.
func (h *History) Len() int { return h.filled }

// Ordered returns the samples oldest first. The result always has the
// ring's full size; slots never written are zero.
func (h *History) Ordered() []float32 {
	out := make([]float32, len(h.samples))
	copy(out, h.samples[h.offset:])
	copy(out[len(h.samples)-h.offset:], h.samples[:h.offset])
	return out
}

// Mean returns the mean of the recorded samples.
func (h *History) Mean() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, v := range h.samples {
		sum += v
	}
	return sum / float32(h.filled)
}

// Max returns the largest recorded sample.
func (h *History) Max() float32 {
	var m float32
	for _, v := range h.samples {
		m = max(m, v)
	}
	return m
}
