package lib

import "sync"
import "strconv"

// HistogramInt64 statistical histogram, safe for concurrent use.
type HistogramInt64 struct {
	mu sync.Mutex
	AverageInt64
	histogram []int64
	// setup
	from  int64
	till  int64
	width int64
}

// NewhistorgramInt64 return a new histogram object, samples less than
// `from` and samples greater than or equal to `till` are counted in the
// first and last bucket.
func NewhistorgramInt64(from, till, width int64) *HistogramInt64 {
	from = (from / width) * width
	till = (till / width) * width
	h := &HistogramInt64{from: from, till: till, width: width}
	h.histogram = make([]int64, 1+((till-from)/width)+1)
	return h
}

// Add a sample to this histogram.
func (h *HistogramInt64) Add(sample int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.AverageInt64.Add(sample)
	if sample < h.from {
		h.histogram[0]++
	} else if sample >= h.till {
		h.histogram[len(h.histogram)-1]++
	} else {
		h.histogram[((sample-h.from)/h.width)+1]++
	}
}

// Clone copies the entire instance.
func (h *HistogramInt64) Clone() *HistogramInt64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	newh := &HistogramInt64{from: h.from, till: h.till, width: h.width}
	newh.AverageInt64 = h.AverageInt64.clone()
	newh.histogram = make([]int64, len(h.histogram))
	copy(newh.histogram, h.histogram)
	return newh
}

// Stats return a map of cummulative count for each bucket, the last
// bucket is keyed as "+".
func (h *HistogramInt64) Stats() map[string]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buckets()
}

// Fullstats includes mean,variance,stddeviance in the Stats().
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := h.AverageInt64.Stats()
	hmap := make(map[string]interface{})
	for k, v := range h.buckets() {
		hmap[k] = v
	}
	stats["histogram"] = hmap
	return stats
}

func (h *HistogramInt64) buckets() map[string]int64 {
	m := make(map[string]int64)
	cumm := int64(0)
	for i := len(h.histogram) - 1; i >= 0; i-- {
		if h.histogram[i] == 0 {
			continue
		}
		for j := 0; j <= i; j++ {
			v := h.histogram[j]
			key := strconv.Itoa(int(h.from + (int64(j) * h.width)))
			cumm += v
			if j == i {
				m["+"] = cumm
			} else {
				m[key] = cumm
			}
		}
		break
	}
	return m
}
