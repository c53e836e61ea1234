package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range append(envKeys, "PATH_CONFIG") {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, BackendAuto, cfg.Backend)
	assert.Equal(t, "jar", cfg.FirestoreCollection)
	assert.Equal(t, "data", cfg.FirestoreDocument)
	assert.Equal(t, "jar.localdata", cfg.LocalSlotKey)
	assert.Equal(t, "jar_data.json", cfg.DataFile)
	assert.Equal(t, "jar.events", cfg.RabbitMQQueue)
	assert.Equal(t, 15*time.Second, cfg.InitTimeout)
	assert.False(t, cfg.StoreConfigured())
	assert.False(t, cfg.APIConfigured())
	assert.False(t, cfg.RedisConfigured())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND", "api")
	t.Setenv("API_URL", "http://localhost:9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("API_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendAPI, cfg.Backend)
	assert.True(t, cfg.APIConfigured())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nlocal_dir: /tmp/jar\nfirebase_project_id: demo\n"), 0o644))
	t.Setenv("PATH_CONFIG", path)
	t.Setenv("LOCAL_DIR", "/var/jar")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "demo", cfg.FirebaseProjectID)
	// env wins over the file
	assert.Equal(t, "/var/jar", cfg.LocalDir)
}

func TestLoadConfig_MissingYAMLFile(t *testing.T) {
	t.Setenv("PATH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: "8080", Backend: "", LocalSlotKey: "k", InitTimeout: time.Second, APITimeout: time.Second}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.Port = "http"
	assert.Error(t, c.Validate())

	c = valid()
	c.Port = "70000"
	assert.Error(t, c.Validate())

	c = valid()
	c.Backend = "sqlite"
	assert.Error(t, c.Validate())

	c = valid()
	c.Backend = "LOCAL"
	assert.NoError(t, c.Validate())

	c = valid()
	c.LocalSlotKey = ""
	assert.Error(t, c.Validate())
}

func TestLegacyNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alice: travis\nbob: dave\n"), 0o644))

	c := &Config{NameMapFile: path, NameMap: "bob=david"}
	names, err := c.LegacyNames()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "travis", "bob": "david"}, names)

	c = &Config{NameMap: "oops"}
	_, err = c.LegacyNames()
	assert.Error(t, err)

	names, err = (&Config{}).LegacyNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}
