package colour

import "fmt"

// UnknownPolicy decides what happens to paint values that cannot be parsed.
type UnknownPolicy string

const (
	// UnknownKeep leaves the original value untouched.
	UnknownKeep UnknownPolicy = "keep"
	// UnknownBlack moves the paint onto the theme colour at full strength.
	UnknownBlack UnknownPolicy = "black"
	// UnknownGrey moves the paint onto the theme colour at half strength.
	UnknownGrey UnknownPolicy = "grey"
)

// ParseUnknownPolicy converts a flag value into an UnknownPolicy.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch p := UnknownPolicy(s); p {
	case UnknownKeep, UnknownBlack, UnknownGrey:
		return p, nil
	case "":
		return UnknownKeep, nil
	case "gray":
		return UnknownGrey, nil
	default:
		return "", fmt.Errorf("invalid unknown colour policy: %s (valid: keep, black, grey)", s)
	}
}

// Opacity returns the opacity to apply and whether the paint should be rewritten at all.
func (p UnknownPolicy) Opacity() (float64, bool) {
	switch p {
	case UnknownBlack:
		return 1.0, true
	case UnknownGrey:
		return 0.5, true
	default:
		return 0, false
	}
}
