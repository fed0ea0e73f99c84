package attendance

import (
	"math"
	"time"
)

// Hour arithmetic over raw timestamps. Pure, no I/O; callers pass an
// immutable snapshot and get hour-denominated values back. Display values
// are rounded with Round2; everything in between keeps full precision.

// TotalHours returns the attendance span in hours. The second return is
// false when the record is still open, so callers can tell "not yet
// computable" apart from a genuine zero duration.
func TotalHours(checkIn time.Time, checkOut *time.Time) (float64, bool) {
	if checkOut == nil {
		return 0, false
	}
	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		return 0, true
	}
	return hours, true
}

// BreakHours sums the closed break intervals in hours. An open break
// contributes nothing until it is closed.
func BreakHours(breaks []Break) float64 {
	var total float64
	for _, b := range breaks {
		if b.EndTime == nil {
			continue
		}
		total += b.EndTime.Sub(b.StartTime).Hours()
	}
	return total
}

// EffectiveHours is total minus break time, floored at zero so that a data
// anomaly where recorded breaks exceed the attendance span never produces a
// negative value.
func EffectiveHours(total, breakTotal float64) float64 {
	return math.Max(0, total-breakTotal)
}

// Round2 rounds to the fixed 2-decimal display precision.
func Round2(hours float64) float64 {
	return math.Round(hours*100) / 100
}
