package services

// NextStreak derives the streak after a scored submission for day, given the user's
// current streak and last active day. The result is always at least 1.
func NextStreak(current int, lastActive *string, day string) int {
	if lastActive == nil || *lastActive == "" {
		return 1
	}
	prev, err := PreviousDay(day)
	if err != nil {
		return 1
	}
	switch *lastActive {
	case prev:
		return current + 1
	case day:
		// already active today; keep the run as is
		if current < 1 {
			return 1
		}
		return current
	default:
		return 1
	}
}

// ReplayStreak folds NextStreak over scored days in the order they were submitted and
// returns the resulting streak and last active day. It yields exactly what a sequence of
// SubmitDay calls stores, including for backfilled days.
func ReplayStreak(submitted []string) (int, string) {
	streak := 0
	var last *string
	for i := range submitted {
		streak = NextStreak(streak, last, submitted[i])
		last = &submitted[i]
	}
	if last == nil {
		return 0, ""
	}
	return streak, *last
}
