package resolver

import (
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

type options struct {
	threshold float64
	tracking  bool
}

func defaultOptions() *options {
	return &options{
		threshold: constants.DefaultSimilarityThreshold,
		tracking:  true,
	}
}

// Option is a function that configures a Resolver.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithThreshold sets the minimum name similarity for the ID + Name layer.
func WithThreshold(threshold float64) Option {
	return func(o *options) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be greater than 0 and at most 1",
			}
		}
		o.threshold = threshold
		return nil
	}
}

// WithProvenance enables field-level provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
