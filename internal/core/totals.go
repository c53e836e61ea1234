package core

import "github.com/travis-tran03/leetcode-jar/internal/models"

// ComputeTotals counts missed statuses per active user. Every user in the
// list gets an entry, even with zero misses; orphaned keys are not counted.
func ComputeTotals(state *models.TrackerState) map[string]int {
	totals := make(map[string]int)
	if state == nil {
		return totals
	}
	for _, u := range state.Users {
		totals[u] = 0
	}
	for _, day := range state.Entries {
		for user, status := range day {
			if status != models.StatusMissed {
				continue
			}
			if _, active := totals[user]; active {
				totals[user]++
			}
		}
	}
	return totals
}

// JarBalance is the number of dollars in the jar: one per miss.
func JarBalance(totals map[string]int) int {
	sum := 0
	for _, v := range totals {
		sum += v
	}
	return sum
}
