// Package bandit implements a k-armed bandit with normally distributed action
// values and epsilon-greedy action selection over sample-average estimates.
package bandit

import (
	"errors"
	"fmt"

	"github.com/netrixframework/kbandit/random"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidArms is returned when the number of arms is not positive
	ErrInvalidArms = errors.New("invalid number of arms")
	// ErrInvalidEpsilon is returned when epsilon is outside [0, 1)
	ErrInvalidEpsilon = errors.New("invalid epsilon value")
	// ErrInvalidDeviation is returned for a negative standard deviation
	ErrInvalidDeviation = errors.New("invalid standard deviation")
	// ErrInvalidMethod is returned for an unknown estimation method
	ErrInvalidMethod = errors.New("invalid estimation method")
	// ErrInvalidAction is returned for an action index outside [0, k)
	ErrInvalidAction = errors.New("invalid action")
	// ErrNotReady is returned when the bandit is used before the first Reset
	ErrNotReady = errors.New("bandit not reset")
)

// Config of a bandit. Fixed for the lifetime of a Bandit
type Config struct {
	// K number of arms
	K int
	// Epsilon probability of picking a uniformly random arm
	Epsilon float64
	// Mu mean of the distribution true values are drawn from
	Mu float64
	// Sigma standard deviation of the distribution true values are drawn from
	Sigma float64
	// RewardNoise standard deviation of a reward around the true value
	RewardNoise float64
}

// DefaultConfig is the greedy ten-armed testbed
func DefaultConfig() Config {
	return Config{
		K:           10,
		Epsilon:     0,
		Mu:          0,
		Sigma:       1,
		RewardNoise: 1,
	}
}

// ValidateEpsilon checks 0 <= epsilon < 1
func ValidateEpsilon(epsilon float64) error {
	if epsilon < 0 || epsilon >= 1 {
		return fmt.Errorf("%w: %v not in [0, 1)", ErrInvalidEpsilon, epsilon)
	}
	return nil
}

// Validate checks the invariants of the configuration
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidArms, c.K)
	}
	if err := ValidateEpsilon(c.Epsilon); err != nil {
		return err
	}
	if c.Sigma < 0 {
		return fmt.Errorf("%w: sigma %v", ErrInvalidDeviation, c.Sigma)
	}
	if c.RewardNoise < 0 {
		return fmt.Errorf("%w: reward noise %v", ErrInvalidDeviation, c.RewardNoise)
	}
	return nil
}

// Bandit is one instance of the decision problem.
//
// A Bandit is unready until the first call to Reset. Reset draws a new reward
// landscape, Act picks an arm without changing anything and Step pulls an arm
// and folds the reward into that arm's estimate.
type Bandit struct {
	config Config
	src    random.Source

	trueValues []float64
	estimates  []float64
	pullCounts []int
	bestAction int
	t          int
	ready      bool
}

// New returns an unready Bandit drawing from src
func New(config Config, src random.Source) (*Bandit, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Bandit{
		config: config,
		src:    src,
	}, nil
}

// SetSource replaces the random stream of the bandit
func (b *Bandit) SetSource(src random.Source) {
	b.src = src
}

// Reset draws fresh true values and forgets everything learned so far
func (b *Bandit) Reset() {
	k := b.config.K
	b.trueValues = make([]float64, k)
	for i := range b.trueValues {
		b.trueValues[i] = b.src.Normal(b.config.Mu, b.config.Sigma)
	}
	b.estimates = make([]float64, k)
	b.pullCounts = make([]int, k)
	b.bestAction = floats.MaxIdx(b.trueValues)
	b.t = 0
	b.ready = true
}

// Act picks the next arm. With probability epsilon any arm, otherwise one of
// the arms with the highest estimate, chosen uniformly among ties.
func (b *Bandit) Act() (int, error) {
	if !b.ready {
		return 0, ErrNotReady
	}
	if b.src.Float64() < b.config.Epsilon {
		return b.src.Intn(b.config.K), nil
	}

	qBest := floats.Max(b.estimates)
	best := make([]int, 0, b.config.K)
	for i, q := range b.estimates {
		if q == qBest {
			best = append(best, i)
		}
	}
	return best[b.src.Intn(len(best))], nil
}

// Step pulls arm action, updates its estimate with method and returns the reward.
// Nothing is changed when an error is returned.
func (b *Bandit) Step(action int, method Method) (float64, error) {
	if !b.ready {
		return 0, ErrNotReady
	}
	if action < 0 || action >= b.config.K {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidAction, action, b.config.K)
	}

	if !method.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}

	reward := b.src.Normal(b.trueValues[action], b.config.RewardNoise)
	b.t++
	b.pullCounts[action]++

	switch method {
	case SampleAverage:
		// running mean, no reward history is kept
		b.estimates[action] += (reward - b.estimates[action]) / float64(b.pullCounts[action])
	}
	return reward, nil
}

// Config returns the configuration of the bandit
func (b *Bandit) Config() Config {
	return b.config
}

// Ready reports whether Reset has been called
func (b *Bandit) Ready() bool {
	return b.ready
}

// TrueValues returns a copy of the hidden action values
func (b *Bandit) TrueValues() []float64 {
	return append([]float64(nil), b.trueValues...)
}

// Estimates returns a copy of the current value estimates
func (b *Bandit) Estimates() []float64 {
	return append([]float64(nil), b.estimates...)
}

// PullCounts returns a copy of how often each arm was pulled
func (b *Bandit) PullCounts() []int {
	return append([]int(nil), b.pullCounts...)
}

// BestAction returns the arm with the highest true value
func (b *Bandit) BestAction() int {
	return b.bestAction
}

// Steps returns the number of steps since the last Reset
func (b *Bandit) Steps() int {
	return b.t
}
