// Package random provides the seedable random streams the bandits draw from.
package random

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is what a bandit needs from its environment: uniform reals for the
// exploration coin, uniform integers for picking arms and gaussian samples
// for true values and rewards.
type Source interface {
	// Float64 returns a uniform sample in [0, 1)
	Float64() float64
	// Intn returns a uniform sample in [0, n). Panics if n <= 0
	Intn(n int) int
	// Normal returns a sample of Normal(mu, sigma)
	Normal(mu, sigma float64) float64
}

// Rand implements Source on top of a PCG stream
type Rand struct {
	src  rand.Source
	rand *rand.Rand
}

var _ Source = &Rand{}

// NewSource returns a Rand seeded with seed. Equal seeds produce equal streams
func NewSource(seed uint64) *Rand {
	src := rand.NewSource(seed)
	return &Rand{
		src:  src,
		rand: rand.New(src),
	}
}

// NewTimeSource returns a Rand seeded from the clock
func NewTimeSource() *Rand {
	return NewSource(uint64(time.Now().UnixNano()))
}

func (r *Rand) Float64() float64 {
	return r.rand.Float64()
}

func (r *Rand) Intn(n int) int {
	return r.rand.Intn(n)
}

func (r *Rand) Normal(mu, sigma float64) float64 {
	return distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
		Src:   r.src,
	}.Rand()
}

// Derive mixes seed with the given stream identifiers into a new seed, so
// that every (configuration, run) pair gets its own independent stream.
func Derive(seed uint64, streams ...uint64) uint64 {
	s := mix(seed)
	for _, id := range streams {
		s = mix(s ^ mix(id+0x9e3779b97f4a7c15))
	}
	return s
}

// splitmix64 finalizer
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
