package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMigrator struct {
	mode    string
	err     error
	applied map[string]string
}

func (f *fakeMigrator) Mode() string { return f.mode }

func (f *fakeMigrator) RenameUsers(_ context.Context, mapping map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.applied = mapping
	return nil
}

func TestMigrateNames(t *testing.T) {
	mapping := map[string]string{"alice": "travis"}
	local := &fakeMigrator{mode: ModeLocal}
	store := &fakeMigrator{mode: ModeStore}

	require.NoError(t, MigrateNames(context.Background(), mapping, zap.NewNop(), local, store))
	assert.Equal(t, mapping, local.applied)
	assert.Equal(t, mapping, store.applied)
}

func TestMigrateNames_FailingTargetDoesNotStopOthers(t *testing.T) {
	boom := errors.New("permission denied")
	local := &fakeMigrator{mode: ModeLocal, err: boom}
	store := &fakeMigrator{mode: ModeStore}

	err := MigrateNames(context.Background(), map[string]string{"alice": "travis"}, nil, local, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "local: permission denied")
	assert.NotNil(t, store.applied)
}

func TestMigrateNames_Rejected(t *testing.T) {
	err := MigrateNames(context.Background(), nil, nil, &fakeMigrator{mode: ModeLocal})
	assert.ErrorIs(t, err, ErrInvalidNameMap)

	err = MigrateNames(context.Background(), map[string]string{"a": "b"}, nil)
	assert.ErrorIs(t, err, ErrNoBackend)
}
