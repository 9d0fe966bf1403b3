package inference

import (
	"fmt"

	"gwsiren/domain/core"
)

// Policy selects the likelihood normalization treatment. Chosen once at
// configuration time and fixed for the whole batch.
type Policy int

const (
	// PolicyCorrect divides each event's likelihood by the expected
	// detection fraction at the candidate H0 and uses population-normalized
	// galaxy weights: selection effects removed, every galaxy counted once.
	PolicyCorrect Policy = iota
	// PolicyNoSelection omits the selection-effect normalization,
	// reproducing the Malmquist-biased analysis.
	PolicyNoSelection
	// PolicyDoubleCount renormalizes galaxy weights per event over the
	// windowed subset, so the same galaxy contributes inflated weight to
	// every event that sees it.
	PolicyDoubleCount
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyCorrect:
		return "correct"
	case PolicyNoSelection:
		return "no-selection"
	case PolicyDoubleCount:
		return "double-count"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "correct", "":
		return PolicyCorrect, nil
	case "no-selection":
		return PolicyNoSelection, nil
	case "double-count":
		return PolicyDoubleCount, nil
	}
	return 0, core.NewValidationError("normalization policy", fmt.Sprintf("unknown policy %q", s))
}
