package engine

import "math"

const (
	DefaultFuzzyThreshold = 2
	DefaultPrefixBoost    = 1.5
	DefaultFuzzyIncrement = 0.5
)

// Options tunes a single search.
type Options struct {
	// FuzzyThreshold is the maximum edit distance at which an indexed term still counts as a match.
	FuzzyThreshold int `json:"fuzzy_threshold"`
	// PrefixBoost is added to a document's score once per query term that prefixes one of its terms.
	PrefixBoost float64 `json:"prefix_boost"`
}

func DefaultOptions() Options {
	return Options{
		FuzzyThreshold: DefaultFuzzyThreshold,
		PrefixBoost:    DefaultPrefixBoost,
	}
}

func (o Options) Validate() error {
	if o.FuzzyThreshold < 0 {
		return &ValidationError{Field: "fuzzy_threshold", Reason: "must not be negative"}
	}
	if math.IsNaN(o.PrefixBoost) || math.IsInf(o.PrefixBoost, 0) {
		return &ValidationError{Field: "prefix_boost", Reason: "must be a finite number"}
	}
	if o.PrefixBoost < 0 {
		return &ValidationError{Field: "prefix_boost", Reason: "must not be negative"}
	}
	return nil
}

// Config holds engine-wide settings that do not vary per query.
type Config struct {
	// FuzzyIncrement is added for every (query term, indexed term, document) fuzzy match.
	FuzzyIncrement float64
}

func DefaultConfig() Config {
	return Config{FuzzyIncrement: DefaultFuzzyIncrement}
}
