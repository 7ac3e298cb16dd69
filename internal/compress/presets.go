// Package compress hands the serialized document to an external
// compressor binary and falls back to an in-process reduction when the
// binary is missing, fails, or runs past its deadline.
package compress

import "fmt"

// Tier selects how aggressively the external compressor is driven.
type Tier string

const (
	TierFast     Tier = "fast"
	TierBalanced Tier = "balanced"
	TierHigh     Tier = "high"
	TierExtreme  Tier = "extreme"
)

// ParseTier validates a tier name from config or flags.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFast, TierBalanced, TierHigh, TierExtreme:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown compression tier %q", s)
}

// Flags builds the compressor argument list for a tier. Skinned scenes
// keep normals for correct deformed shading and never run simplification,
// which would tear the skin weights.
func Flags(tier Tier, skinned bool) []string {
	var args []string
	switch tier {
	case TierFast:
		args = []string{"-cc"}
	case TierBalanced:
		args = []string{"-cc", "-vp", "14", "-vt", "12"}
	case TierHigh:
		args = []string{"-cc", "-vp", "12", "-vt", "10", "-tc"}
	case TierExtreme:
		args = []string{"-cc", "-vp", "11", "-vt", "10", "-tc", "-si", "0.6"}
	}
	if skinned {
		filtered := args[:0]
		skip := false
		for _, a := range args {
			if skip {
				skip = false
				continue
			}
			if a == "-si" {
				skip = true
				continue
			}
			filtered = append(filtered, a)
		}
		args = append(filtered, "-kn")
	}
	return args
}
