package combat

import "github.com/cory-johannsen/scarsofash/internal/game/dice"

const (
	// BindCost is the carried-soul price of one bind attempt.
	BindCost = 20

	minCapture = 5
	maxCapture = 95
)

// CaptureChance returns the bind success percentage for a target at hp of
// maxHP. The base is a step function of the HP percentage (<10 → 90,
// <25 → 60, <=50 → 30, else 10); bonus is added and the sum clamped to
// [5, 95]. A maxHP below 1 divides by 1.
func CaptureChance(hp, maxHP, bonus int) int {
	pct := float64(hp) / float64(max(maxHP, 1)) * 100
	var base int
	switch {
	case pct < 10:
		base = 90
	case pct < 25:
		base = 60
	case pct <= 50:
		base = 30
	default:
		base = 10
	}
	return min(maxCapture, max(minCapture, base+bonus))
}

// RollCapture performs the single percentage roll for a bind attempt.
func RollCapture(chance int, src dice.Source) bool {
	return dice.Percent(src, chance)
}
