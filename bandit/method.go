package bandit

import "fmt"

// Method is the rule used to turn observed rewards into value estimates
type Method int

const (
	// SampleAverage estimates an action's value as the mean of all rewards it produced
	SampleAverage Method = iota
)

var methodNames = map[Method]string{
	SampleAverage: "sample_average",
}

func (m Method) String() string {
	name, ok := methodNames[m]
	if !ok {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return name
}

// Valid reports whether m is a known method
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod returns the Method named s
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}
