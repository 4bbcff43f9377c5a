package config

// Overrides are command line values that take precedence over the config
// file. Zero values are left alone.
type Overrides struct {
	Epsilons   []float64
	Arms       int
	Runs       int
	Timesteps  int
	Seed       uint64
	Workers    int
	OutputDir  string
	ServerAddr string
	LogLevel   string
}

// Apply writes the set overrides into c
func (o *Overrides) Apply(c *Config) {
	if len(o.Epsilons) > 0 {
		c.Epsilons = append([]float64(nil), o.Epsilons...)
	}
	if o.Arms != 0 {
		c.Arms = o.Arms
	}
	if o.Runs != 0 {
		c.Runs = o.Runs
	}
	if o.Timesteps != 0 {
		c.Timesteps = o.Timesteps
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.ServerAddr != "" {
		c.ServerAddr = o.ServerAddr
	}
	if o.LogLevel != "" {
		c.LogConfig.Level = o.LogLevel
	}
}
