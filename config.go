package ratelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Algorithm names accepted in policy files.
const (
	AlgorithmSlidingWindow = "sliding_window"
	AlgorithmTokenBucket   = "token_bucket"
)

// PolicyConfig is a declarative description of one limiter policy, loadable
// from YAML. Limit and Window apply to the sliding window algorithm,
// Capacity and RefillRate to the token bucket.
type PolicyConfig struct {
	// Algorithm is either "sliding_window" or "token_bucket".
	Algorithm string `yaml:"algorithm"`

	// Limit is the number of units allowed per window.
	Limit int64 `yaml:"limit,omitempty"`
	// Window is the window length in time.ParseDuration syntax, e.g. "1m".
	Window string `yaml:"window,omitempty"`

	// Capacity is the maximum number of tokens (burst size).
	Capacity int64 `yaml:"capacity,omitempty"`
	// RefillRate is the number of tokens added per second.
	RefillRate float64 `yaml:"refill_rate,omitempty"`

	// Namespace isolates this policy's keys within a shared store.
	Namespace string `yaml:"namespace,omitempty"`
}

// LoadPolicyFile loads and validates a policy from a YAML file.
func LoadPolicyFile(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read policy file: %v", ErrInvalidConfig, err)
	}

	var p PolicyConfig
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}
	if _, err := p.NewAlgorithm(); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewAlgorithm constructs the algorithm the policy describes.
func (p *PolicyConfig) NewAlgorithm() (Algorithm, error) {
	switch p.Algorithm {
	case AlgorithmSlidingWindow:
		window, err := time.ParseDuration(p.Window)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid window %q: %v", ErrInvalidConfig, p.Window, err)
		}
		return NewSlidingWindow(p.Limit, window)
	case AlgorithmTokenBucket:
		return NewTokenBucket(p.Capacity, p.RefillRate)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, p.Algorithm)
	}
}

// NewLimiter builds a Limiter for the policy on top of the given store,
// applying the policy's namespace when set.
func (p *PolicyConfig) NewLimiter(store Store) (*Limiter, error) {
	alg, err := p.NewAlgorithm()
	if err != nil {
		return nil, err
	}
	var opts []LimiterOption
	if p.Namespace != "" {
		opts = append(opts, WithNamespace(p.Namespace))
	}
	return New(store, alg, opts...)
}
