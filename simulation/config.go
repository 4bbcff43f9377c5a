package simulation

import (
	"errors"
	"fmt"

	"github.com/netrixframework/kbandit/bandit"
	"github.com/netrixframework/kbandit/config"
)

var (
	// ErrNoEpsilons is returned when there is no configuration to simulate
	ErrNoEpsilons = errors.New("no epsilon values")
	// ErrInvalidRuns is returned when the number of runs is not positive
	ErrInvalidRuns = errors.New("invalid number of runs")
	// ErrInvalidTimesteps is returned when the number of timesteps is not positive
	ErrInvalidTimesteps = errors.New("invalid number of timesteps")
)

// Config of an experiment. One bandit configuration is simulated per epsilon,
// all other parameters are shared.
type Config struct {
	K           int
	Epsilons    []float64
	Runs        int
	Timesteps   int
	Mu          float64
	Sigma       float64
	RewardNoise float64
	Method      bandit.Method
	// Seed of the experiment. Runs derive their own streams from it
	Seed uint64
	// Workers runs are spread over. Values below 2 run sequentially
	Workers int
}

// NewConfig builds the simulation config from the tool config
func NewConfig(c *config.Config) (Config, error) {
	method, err := bandit.ParseMethod(c.Method)
	if err != nil {
		return Config{}, err
	}
	return Config{
		K:           c.Arms,
		Epsilons:    append([]float64(nil), c.Epsilons...),
		Runs:        c.Runs,
		Timesteps:   c.Timesteps,
		Mu:          c.Mu,
		Sigma:       c.Sigma,
		RewardNoise: c.RewardNoise,
		Method:      method,
		Seed:        c.Seed,
		Workers:     c.Workers,
	}, nil
}

// Bandit returns the bandit configuration of the i-th epsilon
func (c Config) Bandit(i int) bandit.Config {
	return bandit.Config{
		K:           c.K,
		Epsilon:     c.Epsilons[i],
		Mu:          c.Mu,
		Sigma:       c.Sigma,
		RewardNoise: c.RewardNoise,
	}
}

// Validate checks every configuration up front so that no partial simulation happens
func (c Config) Validate() error {
	if len(c.Epsilons) == 0 {
		return ErrNoEpsilons
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRuns, c.Runs)
	}
	if c.Timesteps < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTimesteps, c.Timesteps)
	}
	if !c.Method.Valid() {
		return fmt.Errorf("%w: %s", bandit.ErrInvalidMethod, c.Method)
	}
	for i := range c.Epsilons {
		if err := c.Bandit(i).Validate(); err != nil {
			return fmt.Errorf("configuration %d: %w", i, err)
		}
	}
	return nil
}
