package core

import (
	"sort"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// RemapNames returns a copy of state with every identifier found in mapping
// (old -> new) replaced, both in the user list and in every DayRecord.
// The input is never modified and a nil state yields the empty shell.
//
// When renames collapse several keys of one DayRecord onto the same target,
// a key that is not renamed keeps its value; otherwise the renamed source keys
// are applied in ascending order and the last one wins.
func RemapNames(state *models.TrackerState, mapping map[string]string) *models.TrackerState {
	if state == nil {
		return models.NewState()
	}
	if len(mapping) == 0 {
		return state.Clone()
	}

	out := models.NewState()
	seen := make(map[string]struct{}, len(state.Users))
	for _, u := range state.Users {
		name := rename(u, mapping)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out.Users = append(out.Users, name)
	}

	for date, day := range state.Entries {
		out.Entries[date] = remapDay(day, mapping)
	}
	return out
}

func remapDay(day models.DayRecord, mapping map[string]string) models.DayRecord {
	keys := make([]string, 0, len(day))
	for k := range day {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(models.DayRecord, len(day))
	// renamed keys first, so untouched keys overwrite them below
	for _, k := range keys {
		if _, renamed := mapping[k]; renamed {
			out[mapping[k]] = day[k]
		}
	}
	for _, k := range keys {
		if _, renamed := mapping[k]; !renamed {
			out[k] = day[k]
		}
	}
	return out
}

func rename(name string, mapping map[string]string) string {
	if n, ok := mapping[name]; ok {
		return n
	}
	return name
}
