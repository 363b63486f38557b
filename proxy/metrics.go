package proxy

import "time"

// Metrics stores basic measurements for a proxied request.
type Metrics struct {
	// BytesIn is the size of the request body received from the client.
	BytesIn int64

	// BytesOut is the size of the response body sent to the client.
	BytesOut int64

	StartedAt       time.Time
	TimeToFirstByte time.Duration
	TimeToLastByte  time.Duration
}

// Start the timer.
func (metrics *Metrics) Start() {
	metrics.StartedAt = time.Now()
}

// FirstByteSent records the time offset to the first byte of the response.
func (metrics *Metrics) FirstByteSent() {
	metrics.TimeToFirstByte = time.Since(metrics.StartedAt)
}

// IsFirstByteSent returns true if the first byte has been sent.
func (metrics *Metrics) IsFirstByteSent() bool {
	return metrics.TimeToFirstByte > 0
}

// LastByteSent records the time offset to the last byte of the response.
func (metrics *Metrics) LastByteSent() {
	metrics.TimeToLastByte = time.Since(metrics.StartedAt)
}

// IsLastByteSent returns true if the last byte has been sent.
func (metrics *Metrics) IsLastByteSent() bool {
	return metrics.TimeToLastByte > 0
}

// milliseconds returns d as a fractional number of milliseconds.
func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
