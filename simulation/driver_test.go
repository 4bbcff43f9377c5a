package simulation

import (
	"context"
	"testing"

	"github.com/netrixframework/kbandit/bandit"
	"github.com/netrixframework/kbandit/config"
	"github.com/netrixframework/kbandit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		K:           10,
		Epsilons:    []float64{0, 0.1, 0.01},
		Runs:        50,
		Timesteps:   200,
		Mu:          0,
		Sigma:       1,
		RewardNoise: 1,
		Method:      bandit.SampleAverage,
		Seed:        42,
		Workers:     1,
	}
}

func run(t *testing.T, c Config) *Result {
	t.Helper()
	d, err := NewDriver(c, log.Discard())
	require.NoError(t, err)
	result, err := d.Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestNewDriverValidation(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"no epsilons", func(c *Config) { c.Epsilons = nil }, ErrNoEpsilons},
		{"epsilon one", func(c *Config) { c.Epsilons = []float64{0, 1} }, bandit.ErrInvalidEpsilon},
		{"negative epsilon", func(c *Config) { c.Epsilons = []float64{-0.5} }, bandit.ErrInvalidEpsilon},
		{"zero arms", func(c *Config) { c.K = 0 }, bandit.ErrInvalidArms},
		{"zero runs", func(c *Config) { c.Runs = 0 }, ErrInvalidRuns},
		{"zero timesteps", func(c *Config) { c.Timesteps = 0 }, ErrInvalidTimesteps},
		{"unknown method", func(c *Config) { c.Method = bandit.Method(9) }, bandit.ErrInvalidMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testConfig()
			tc.modify(&c)
			_, err := NewDriver(c, log.Discard())
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRunShape(t *testing.T) {
	c := testConfig()
	result := run(t, c)

	require.Len(t, result.Configs, len(c.Epsilons))
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, "sample_average", result.Method)
	for i, cr := range result.Configs {
		assert.Equal(t, c.Epsilons[i], cr.Epsilon)
		assert.Len(t, cr.MeanReward, c.Timesteps)
		assert.Len(t, cr.OptimalAction, c.Timesteps)
		assert.Len(t, cr.TrueValues, c.K)
		assert.Equal(t, c.RewardNoise, cr.RewardNoise)
		for _, v := range cr.OptimalAction {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	optimal, rewards := result.Series()
	assert.Len(t, optimal, 3)
	assert.Len(t, rewards, 3)
	assert.Equal(t, c.Epsilons, result.Epsilons())
}

func TestRunDeterministic(t *testing.T) {
	c := testConfig()
	first := run(t, c)
	second := run(t, c)
	assert.Equal(t, first, second)

	c.Seed = 43
	third := run(t, c)
	assert.NotEqual(t, first.Configs[0].MeanReward, third.Configs[0].MeanReward)
}

func TestRunWorkersDoNotChangeResult(t *testing.T) {
	c := testConfig()
	sequential := run(t, c)

	c.Workers = 4
	parallel := run(t, c)
	assert.Equal(t, sequential, parallel)

	c.Workers = 1000
	assert.Equal(t, sequential, run(t, c))
}

func TestSingleRunIndicators(t *testing.T) {
	c := testConfig()
	c.Runs = 1
	c.Timesteps = 3
	c.K = 5
	c.Epsilons = []float64{0}
	result := run(t, c)

	// with one run the optimal action series is made of raw 0/1 indicators
	for _, v := range result.Configs[0].OptimalAction {
		assert.Contains(t, []float64{0, 1}, v)
	}
}

func TestExplorationFindsBestArm(t *testing.T) {
	c := testConfig()
	c.Epsilons = []float64{0, 0.1}
	c.Runs = 200
	c.Timesteps = 500
	c.Workers = 4
	result := run(t, c)

	greedy := result.Configs[0].Summary()
	explorer := result.Configs[1].Summary()
	assert.Greater(t, explorer.FinalOptimal, greedy.FinalOptimal)
	assert.Greater(t, explorer.AverageOptimal, 0.4)
	// early on every arm is equally likely to be picked
	assert.Less(t, result.Configs[1].OptimalAction[0], 0.3)
}

func TestRunCancelled(t *testing.T) {
	for _, workers := range []int{1, 4} {
		c := testConfig()
		c.Workers = workers
		d, err := NewDriver(c, log.Discard())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = d.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestClockSeed(t *testing.T) {
	c := testConfig()
	c.Seed = 0
	c.Runs = 2
	c.Timesteps = 5
	result := run(t, c)
	assert.NotZero(t, result.Seed)
}

func TestNewConfig(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Seed = 7
	c, err := NewConfig(conf)
	require.NoError(t, err)
	assert.Equal(t, 10, c.K)
	assert.Equal(t, []float64{0, 0.1, 0.01}, c.Epsilons)
	assert.Equal(t, bandit.SampleAverage, c.Method)
	assert.Equal(t, uint64(7), c.Seed)
	assert.NoError(t, c.Validate())

	conf.Method = "weighted"
	_, err = NewConfig(conf)
	assert.ErrorIs(t, err, bandit.ErrInvalidMethod)
}

func TestSummary(t *testing.T) {
	cr := &ConfigResult{
		Epsilon:       0.1,
		MeanReward:    []float64{0, 1, 2},
		OptimalAction: []float64{0, 0.5, 1},
	}
	s := cr.Summary()
	assert.Equal(t, 2.0, s.FinalMeanReward)
	assert.Equal(t, 1.0, s.FinalOptimal)
	assert.Equal(t, 1.0, s.AverageReward)
	assert.Equal(t, 0.5, s.AverageOptimal)
	assert.Equal(t, Summary{}, (&ConfigResult{}).Summary())
}
