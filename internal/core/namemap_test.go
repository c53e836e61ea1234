package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameMap(t *testing.T) {
	tests := []struct {
		input   string
		want    map[string]string
		wantErr bool
	}{
		{input: "", want: map[string]string{}},
		{input: "alice=travis", want: map[string]string{"alice": "travis"}},
		{input: "alice=travis, bob=david", want: map[string]string{"alice": "travis", "bob": "david"}},
		{input: "alice=travis\nbob=david", want: map[string]string{"alice": "travis", "bob": "david"}},
		{input: "alice", wantErr: true},
		{input: "alice=", wantErr: true},
		{input: "=travis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNameMap(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNameMap)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNameMapFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(good, []byte("alice: travis\nbob: david\n"), 0o644))
	mapping, err := LoadNameMapFile(good)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "travis", "bob": "david"}, mapping)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	mapping, err = LoadNameMapFile(empty)
	require.NoError(t, err)
	assert.Empty(t, mapping)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- alice\n- bob\n"), 0o644))
	_, err = LoadNameMapFile(bad)
	assert.ErrorIs(t, err, ErrInvalidNameMap)

	_, err = LoadNameMapFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidNameMap)
}
