// Package inference defines the opaque anomaly scorer interface (the
// neural inference engine is out of scope per spec.md §1 — treated here
// purely as a scorer mapping a 128-float feature vector to a scalar in
// [0,1]) and a deterministic stub implementation for tests and
// environments without a model artifact loaded.
package inference

import "github.com/aryorithm/blackbox/internal/model"

// Scorer maps a fixed-length feature vector to an anomaly score in
// [0,1]. A scorer error is treated by the caller as score = 0 (spec.md
// §7's "Inference failure" policy) so Score never needs to signal
// failure explicitly; implementations that can fail should degrade to a
// safe default themselves.
type Scorer interface {
	Score(features [model.FeatureVectorSize]float64) float64
}

// StaticScorer always returns a fixed score. Useful for deterministic
// tests and for environments with active defense disabled.
type StaticScorer struct {
	Value float64
}

// Score returns the configured static value, clamped to [0,1].
func (s StaticScorer) Score(_ [model.FeatureVectorSize]float64) float64 {
	if s.Value < 0 {
		return 0
	}
	if s.Value > 1 {
		return 1
	}
	return s.Value
}

// MeanMagnitudeScorer is a deterministic, model-free scorer used where no
// trained model artifact is available: it scores the normalized mean
// absolute magnitude of the feature vector. It exists purely to exercise
// the classification path end-to-end without a real model file.
type MeanMagnitudeScorer struct{}

// Score computes the mean absolute feature value, clamped to [0,1].
func (MeanMagnitudeScorer) Score(features [model.FeatureVectorSize]float64) float64 {
	var sum float64
	for _, f := range features {
		if f < 0 {
			f = -f
		}
		sum += f
	}
	mean := sum / float64(model.FeatureVectorSize)
	if mean > 1 {
		return 1
	}
	return mean
}
