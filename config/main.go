package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ConfigPath is the variable which stores the config path command line parameter
	ConfigPath string
)

// Config stores the config for the tool
type Config struct {
	// Arms number of actions of every bandit
	Arms int `json:"k"`
	// Epsilons exploration probabilities, one simulated configuration each
	Epsilons []float64 `json:"epsilons"`
	// Runs number of independent runs per configuration
	Runs int `json:"runs"`
	// Timesteps number of steps in every run
	Timesteps int `json:"timesteps"`
	// Mu mean of the distribution the true action values are drawn from
	Mu float64 `json:"mu"`
	// Sigma standard deviation of the distribution the true action values are drawn from
	Sigma float64 `json:"sigma"`
	// RewardNoise standard deviation of a reward around the true action value
	RewardNoise float64 `json:"reward_noise"`
	// Method value estimation method. Only `sample_average` is currently supported
	Method string `json:"method"`
	// Seed for the random source. 0 seeds from the clock
	Seed uint64 `json:"seed"`
	// Workers number of goroutines runs are spread over
	Workers int `json:"workers"`
	// OutputDir directory the charts are written to
	OutputDir string `json:"output_dir"`
	// ServerAddr address of the APIServer
	ServerAddr string `json:"server_addr"`
	// LogConfig configuration for logging
	LogConfig LogConfig `json:"log"`
}

// LogConfig stores the config for logging purpose
type LogConfig struct {
	// Path of the log file
	Path string `json:"path"`
	// Format to log. Only `json` is currently supported
	Format string `json:"format"`
	// Level log level, one of panic|fatal|error|warn|warning|info|debug|trace
	Level string `json:"level"`
}

// DefaultConfig returns the configuration of the ten-armed testbed
func DefaultConfig() *Config {
	return &Config{
		Arms:        10,
		Epsilons:    []float64{0, 0.1, 0.01},
		Runs:        2000,
		Timesteps:   1000,
		Mu:          0,
		Sigma:       1,
		RewardNoise: 1,
		Method:      "sample_average",
		Seed:        0,
		Workers:     1,
		OutputDir:   "./plots",
		ServerAddr:  "0.0.0.0:7074",
		LogConfig: LogConfig{
			Path:   "",
			Format: "text",
			Level:  "info",
		},
	}
}

// ParseConfig parses config from the specified file on top of DefaultConfig
func ParseConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	defaultConfig := DefaultConfig()
	err = json.Unmarshal(bytes, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return defaultConfig, nil
}

// LoadConfig is ParseConfig that falls back to DefaultConfig when the file does not exist
func LoadConfig(path string) (*Config, error) {
	c, err := ParseConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return c, err
}
