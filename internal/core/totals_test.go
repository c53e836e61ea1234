package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

func TestComputeTotals(t *testing.T) {
	state := &models.TrackerState{
		Users: []string{"travis", "david"},
		Entries: map[string]models.DayRecord{
			"2024-01-01": {"travis": models.StatusDone, "david": models.StatusMissed},
			"2024-01-02": {"david": models.StatusMissed, "ghost": models.StatusMissed},
			"2024-01-03": {"travis": models.StatusMissed},
		},
	}

	totals := ComputeTotals(state)
	assert.Equal(t, map[string]int{"travis": 1, "david": 2}, totals)
	assert.Equal(t, 3, JarBalance(totals))

	for _, n := range totals {
		assert.LessOrEqual(t, n, len(state.Entries))
	}
}

func TestComputeTotals_NoEntries(t *testing.T) {
	totals := ComputeTotals(models.SampleState())
	assert.Equal(t, map[string]int{"travis": 0, "david": 0}, totals)
	assert.Zero(t, JarBalance(totals))

	assert.Empty(t, ComputeTotals(nil))
	assert.Empty(t, ComputeTotals(models.NewState()))
}
