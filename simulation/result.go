package simulation

import (
	"gonum.org/v1/gonum/stat"
)

// ConfigResult is the outcome of one configuration, averaged over all runs
type ConfigResult struct {
	Epsilon float64 `json:"epsilon"`
	// MeanReward average reward at every timestep
	MeanReward []float64 `json:"mean_reward"`
	// OptimalAction fraction of runs that picked the best arm at every timestep
	OptimalAction []float64 `json:"optimal_action"`
	// TrueValues of the most recent run
	TrueValues []float64 `json:"true_values"`
	// BestAction of the most recent run
	BestAction  int     `json:"best_action"`
	RewardNoise float64 `json:"reward_noise"`
}

// Result of an experiment. Configs is indexed like the input epsilons
type Result struct {
	Seed      uint64          `json:"seed"`
	K         int             `json:"k"`
	Runs      int             `json:"runs"`
	Timesteps int             `json:"timesteps"`
	Method    string          `json:"method"`
	Configs   []*ConfigResult `json:"configs"`
}

// Summary condenses the series of a configuration into a few numbers
type Summary struct {
	Epsilon         float64 `json:"epsilon"`
	FinalMeanReward float64 `json:"final_mean_reward"`
	FinalOptimal    float64 `json:"final_optimal"`
	AverageReward   float64 `json:"average_reward"`
	AverageOptimal  float64 `json:"average_optimal"`
}

// Summary of the configuration
func (c *ConfigResult) Summary() Summary {
	s := Summary{Epsilon: c.Epsilon}
	if n := len(c.MeanReward); n > 0 {
		s.FinalMeanReward = c.MeanReward[n-1]
		s.AverageReward = stat.Mean(c.MeanReward, nil)
	}
	if n := len(c.OptimalAction); n > 0 {
		s.FinalOptimal = c.OptimalAction[n-1]
		s.AverageOptimal = stat.Mean(c.OptimalAction, nil)
	}
	return s
}

// Summaries of every configuration, in order
func (r *Result) Summaries() []Summary {
	summaries := make([]Summary, len(r.Configs))
	for i, c := range r.Configs {
		summaries[i] = c.Summary()
	}
	return summaries
}

// Series returns the optimal action and mean reward series as parallel slices
func (r *Result) Series() (optimal [][]float64, rewards [][]float64) {
	optimal = make([][]float64, len(r.Configs))
	rewards = make([][]float64, len(r.Configs))
	for i, c := range r.Configs {
		optimal[i] = c.OptimalAction
		rewards[i] = c.MeanReward
	}
	return optimal, rewards
}

// Epsilons of the simulated configurations, in order
func (r *Result) Epsilons() []float64 {
	epsilons := make([]float64, len(r.Configs))
	for i, c := range r.Configs {
		epsilons[i] = c.Epsilon
	}
	return epsilons
}
