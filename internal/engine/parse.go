package engine

import (
	"fmt"
	"strings"
)

// ParseTier parses user input to a Tier.
// Supported: unselected, none, minimum, full, bonus and their short forms.
func ParseTier(input string) (Tier, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "u", "unselected", "clear":
		return TierUnselected, nil
	case "n", "none", "skip", "no":
		return TierNone, nil
	case "m", "min", "minimum":
		return TierMinimum, nil
	case "f", "full", "done", "yes":
		return TierFull, nil
	case "b", "bonus", "extra":
		return TierBonus, nil
	default:
		return "", fmt.Errorf("invalid tier: %q", input)
	}
}
