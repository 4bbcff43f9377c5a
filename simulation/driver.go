// Package simulation runs many independent bandit runs per configuration and
// averages them into per-timestep series.
package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/netrixframework/kbandit/bandit"
	"github.com/netrixframework/kbandit/log"
	"github.com/netrixframework/kbandit/random"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Driver simulates every configuration of a Config
type Driver struct {
	config Config
	Logger *log.Logger
}

// NewDriver validates config and returns a Driver. Nothing is simulated when
// the config is invalid.
func NewDriver(config Config, logger *log.Logger) (*Driver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Driver{
		config: config,
		Logger: logger.With(log.LogParams{"service": "SimulationDriver"}),
	}, nil
}

// Config returns the validated configuration
func (d *Driver) Config() Config {
	return d.config
}

// Run simulates all configurations in order. A zero seed is replaced by one
// taken from the clock and reported in the result.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	seed := d.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	result := &Result{
		Seed:      seed,
		K:         d.config.K,
		Runs:      d.config.Runs,
		Timesteps: d.config.Timesteps,
		Method:    d.config.Method.String(),
		Configs:   make([]*ConfigResult, len(d.config.Epsilons)),
	}
	for i := range d.config.Epsilons {
		start := time.Now()
		logger := d.Logger.With(log.LogParams{
			"config":  i,
			"epsilon": d.config.Epsilons[i],
		})
		logger.With(log.LogParams{
			"runs":      d.config.Runs,
			"timesteps": d.config.Timesteps,
		}).Info("Simulating configuration")

		cr, err := d.runConfig(ctx, i, seed, logger)
		if err != nil {
			return nil, err
		}
		result.Configs[i] = cr

		summary := cr.Summary()
		logger.With(log.LogParams{
			"duration":          time.Since(start).String(),
			"final_mean_reward": summary.FinalMeanReward,
			"final_optimal":     summary.FinalOptimal,
		}).Info("Configuration done")
	}
	return result, nil
}

// buffers holds one row per run
type buffers struct {
	rewards *mat.Dense
	optimal *mat.Dense

	// the most recent run, written only by the goroutine simulating it
	lastTrueValues []float64
	lastBestAction int
}

func (d *Driver) runConfig(ctx context.Context, i int, seed uint64, logger *log.Logger) (*ConfigResult, error) {
	runs, timesteps := d.config.Runs, d.config.Timesteps
	buf := &buffers{
		rewards: mat.NewDense(runs, timesteps, nil),
		optimal: mat.NewDense(runs, timesteps, nil),
	}

	workers := d.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > runs {
		workers = runs
	}

	var err error
	if workers == 1 {
		err = d.runSequential(ctx, i, seed, buf, logger)
	} else {
		err = d.runParallel(ctx, i, seed, workers, buf, logger)
	}
	if err != nil {
		return nil, err
	}

	return &ConfigResult{
		Epsilon:       d.config.Epsilons[i],
		MeanReward:    columnMeans(buf.rewards),
		OptimalAction: columnMeans(buf.optimal),
		TrueValues:    buf.lastTrueValues,
		BestAction:    buf.lastBestAction,
		RewardNoise:   d.config.RewardNoise,
	}, nil
}

func (d *Driver) runSequential(ctx context.Context, i int, seed uint64, buf *buffers, logger *log.Logger) error {
	b, err := bandit.New(d.config.Bandit(i), nil)
	if err != nil {
		return err
	}
	for r := 0; r < d.config.Runs; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.simulateRun(b, i, r, seed, buf, logger); err != nil {
			return err
		}
	}
	return nil
}

// runParallel spreads the runs over a pool of workers. Each worker owns its
// bandit and each run writes only its own buffer rows.
func (d *Driver) runParallel(ctx context.Context, i int, seed uint64, workers int, buf *buffers, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errCh := make(chan error, workers)
	wg := new(sync.WaitGroup)

	for w := 0; w < workers; w++ {
		b, err := bandit.New(d.config.Bandit(i), nil)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(b *bandit.Bandit) {
			defer wg.Done()
			for r := range jobs {
				if err := d.simulateRun(b, i, r, seed, buf, logger); err != nil {
					errCh <- err
					cancel()
					return
				}
			}
		}(b)
	}

loop:
	for r := 0; r < d.config.Runs; r++ {
		select {
		case jobs <- r:
		case <-ctx.Done():
			break loop
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
	}
	return ctx.Err()
}

// simulateRun resets b with the stream of run r and plays it to the horizon
func (d *Driver) simulateRun(b *bandit.Bandit, i, r int, seed uint64, buf *buffers, logger *log.Logger) error {
	b.SetSource(random.NewSource(random.Derive(seed, uint64(i), uint64(r))))
	b.Reset()

	rewards := buf.rewards.RawRowView(r)
	optimal := buf.optimal.RawRowView(r)
	best := b.BestAction()
	for t := 0; t < d.config.Timesteps; t++ {
		action, err := b.Act()
		if err != nil {
			return err
		}
		reward, err := b.Step(action, d.config.Method)
		if err != nil {
			return err
		}
		rewards[t] = reward
		if action == best {
			optimal[t] = 1
		}
	}

	if r == d.config.Runs-1 {
		buf.lastTrueValues = b.TrueValues()
		buf.lastBestAction = best
	}
	logger.With(log.LogParams{
		"run":         r,
		"best_action": best,
		"pulls":       b.PullCounts(),
	}).Debug("Run done")
	return nil
}

// columnMeans averages m over its rows
func columnMeans(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		means[j] = stat.Mean(col, nil)
	}
	return means
}
