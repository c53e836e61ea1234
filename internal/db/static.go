package db

import (
	"os"

	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// LoadStaticData reads the bundled data file. Any failure yields the
// built-in sample state.
func LoadStaticData(path string, logger *zap.Logger) *models.TrackerState {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return models.SampleState()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Static data unavailable; using sample users", zap.String("path", path), zap.Error(err))
		return models.SampleState()
	}
	state, err := models.ParseState(data)
	if err != nil {
		logger.Warn("Static data is malformed; using sample users", zap.String("path", path), zap.Error(err))
		return models.SampleState()
	}
	return state
}
