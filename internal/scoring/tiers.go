package scoring

import "math"

// UserLevel is the proficiency tier of the simple variant.
type UserLevel string

const (
	LevelBeginner     UserLevel = "beginner"
	LevelIntermediate UserLevel = "intermediate"
	LevelAdvanced     UserLevel = "advanced"
)

// Risk is the risk tier of the weighted variant.
type Risk string

const (
	RiskHigh   Risk = "high"
	RiskMedium Risk = "medium"
	RiskLow    Risk = "low"
)

// UserLevelTier maps a minimum percentage to a level.
type UserLevelTier struct {
	Min   int
	Level UserLevel
}

// RiskTier maps a minimum percentage to a risk.
type RiskTier struct {
	Min  int
	Risk Risk
}

// UserLevelTiers are ordered from highest to lowest lower bound.
// Lower bounds are inclusive.
var UserLevelTiers = []UserLevelTier{
	{Min: 80, Level: LevelAdvanced},
	{Min: 60, Level: LevelIntermediate},
	{Min: 0, Level: LevelBeginner},
}

// RiskTiers are ordered from highest to lowest lower bound. These are
// deliberately separate from UserLevelTiers.
var RiskTiers = []RiskTier{
	{Min: 70, Risk: RiskLow},
	{Min: 40, Risk: RiskMedium},
	{Min: 0, Risk: RiskHigh},
}

// LevelFor returns the user level for a percentage.
func LevelFor(pct int) UserLevel {
	for _, t := range UserLevelTiers {
		if pct >= t.Min {
			return t.Level
		}
	}
	return LevelBeginner
}

// RiskFor returns the risk tier for a percentage.
func RiskFor(pct int) Risk {
	for _, t := range RiskTiers {
		if pct >= t.Min {
			return t.Risk
		}
	}
	return RiskHigh
}

// Percentage returns round(score/max*100) rounding half up, or 0 when max
// is not positive.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	p := int(math.Floor(float64(score)*100/float64(max) + 0.5))
	return clamp(p, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
