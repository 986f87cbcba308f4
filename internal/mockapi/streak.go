package mockapi

import "time"

// nextStreak returns the streak after activity at now. Activity on the same
// calendar day keeps the streak, the following day extends it, and any
// longer gap restarts it at 1.
func nextStreak(streak int, last, now time.Time) (int, time.Time) {
	if last.IsZero() || streak <= 0 {
		return 1, now
	}
	days := dayNumber(now) - dayNumber(last)
	switch {
	case days <= 0:
		return streak, now
	case days == 1:
		return streak + 1, now
	default:
		return 1, now
	}
}

func dayNumber(t time.Time) int {
	y, m, d := t.UTC().Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
