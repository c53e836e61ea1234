package db

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

func legacyView() *models.TrackerState {
	doc := map[string]interface{}{
		"users":   []interface{}{"alice", "david"},
		"entries": map[string]interface{}{"2024-01-01": map[string]interface{}{"alice": "missed"}},
	}
	return core.RemapNames(models.FromDocument(doc), map[string]string{"alice": "travis"})
}

func TestPlanMark(t *testing.T) {
	w, err := planMark(legacyView(), true, "2024-01-02", "travis", models.StatusDone)
	require.NoError(t, err)
	assert.Nil(t, w.set)
	assert.Equal(t, []firestore.Update{
		{FieldPath: firestore.FieldPath{"entries", "2024-01-02", "travis"}, Value: "done"},
	}, w.updates)

	_, err = planMark(legacyView(), true, "2024-01-02", "alice", models.StatusDone)
	assert.ErrorIs(t, err, models.ErrUnknownUser)
	_, err = planMark(legacyView(), true, "2024-01-02", "david", models.Status("later"))
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestPlanMark_MissingDocument(t *testing.T) {
	view := models.SampleState()
	w, err := planMark(view, false, "2024-01-01", "david", models.StatusMissed)
	require.NoError(t, err)
	assert.Empty(t, w.updates)
	assert.Equal(t, models.DayRecord{"david": models.StatusMissed},
		models.FromDocument(w.set).Entries["2024-01-01"])
}

func TestPlanCloseDay(t *testing.T) {
	view := legacyView()
	w, changed := planCloseDay(view, true, "2024-01-01")
	assert.Equal(t, 1, changed)
	assert.Equal(t, []firestore.Update{
		{FieldPath: firestore.FieldPath{"entries", "2024-01-01", "david"}, Value: "missed"},
	}, w.updates)

	// nothing left to fill: no write at all
	view.Entries["2024-01-01"]["david"] = models.StatusMissed
	w, changed = planCloseDay(view, true, "2024-01-01")
	assert.Zero(t, changed)
	assert.Nil(t, w.set)
	assert.Empty(t, w.updates)

	w, changed = planCloseDay(models.SampleState(), false, "2024-01-03")
	assert.Equal(t, 2, changed)
	assert.Equal(t, models.DayRecord{"travis": models.StatusMissed, "david": models.StatusMissed},
		models.FromDocument(w.set).Entries["2024-01-03"])
}

func TestPlanInitUsers(t *testing.T) {
	w := planInitUsers(legacyView(), true, []string{"amy", "ben"})
	assert.Nil(t, w.set)
	assert.Equal(t, []firestore.Update{{Path: "users", Value: []string{"amy", "ben"}}}, w.updates)

	w = planInitUsers(models.NewState(), false, []string{"amy"})
	assert.Equal(t, []string{"amy"}, models.FromDocument(w.set).Users)
}
