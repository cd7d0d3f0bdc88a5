package services

// NextStreak computes the consecutive-days counter transition for one day
// boundary. The result is never negative and only ever grows by one.
//
//   - logged today, and yesterday too (or no streak yet): streak extends.
//   - logged today after a gap: today starts a new streak of 1.
//   - logged neither today nor yesterday: streak is gone.
//   - not logged today but logged yesterday: the streak is still live until
//     the day fully elapses, so it stays as-is. The daily rollover job makes
//     this branch final once "today" has become "yesterday".
func NextStreak(current int, loggedToday, loggedYesterday bool) int {
	if current < 0 {
		current = 0
	}

	switch {
	case loggedToday && (loggedYesterday || current == 0):
		return current + 1
	case loggedToday:
		return 1
	case loggedYesterday:
		return current
	default:
		return 0
	}
}
