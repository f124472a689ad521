package quartiles

import "fmt"

// Policy selects the interpolation and fence rule used for a summary.
type Policy string

const (
	// PolicyTukey uses linear percentile interpolation with ±1.5×IQR fences.
	PolicyTukey Policy = "tukey"
	// PolicyReal uses the p(n+1)/4 rank formula with the extrema as fences.
	PolicyReal Policy = "real"
	// PolicyFair combines PolicyReal quartiles with Tukey fences clamped
	// to the extrema.
	PolicyFair Policy = "fair"
)

// Policies lists all supported policies in display order.
var Policies = []Policy{PolicyTukey, PolicyReal, PolicyFair}

// ParsePolicy converts a user-supplied string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyTukey, PolicyReal, PolicyFair:
		return Policy(s), nil
	case "":
		return PolicyTukey, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want tukey, real, or fair)", s)
	}
}

// Compute dispatches to the constructor for the given policy.
func Compute[T Number](policy Policy, sample []T) (Quartiles, error) {
	switch policy {
	case PolicyReal:
		return Real(sample)
	case PolicyFair:
		return Fair(sample)
	default:
		return New(sample)
	}
}
