// Package rd holds rate-distortion curves. A curve relates evidence volume to
// uncertainty for one intent; it is computed externally and the graph core
// stores and returns it unmodified.
package rd

// Point is one (rate, distortion) sample.
type Point struct {
	Rate       float64 `json:"rate"`
	Distortion float64 `json:"distortion"`
}

// Curve is an opaque sequence of samples keyed by intent label in the graph
// store.
type Curve struct {
	Intent string  `json:"intent"`
	Points []Point `json:"points"`
}
