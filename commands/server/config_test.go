package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	conf, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, home, conf.Home)
	assert.Equal(t, "tcp://localhost:26658", conf.Bind)
	assert.Equal(t, "", conf.APIBind)
	assert.Equal(t, "info", conf.LogLevel)

	toml := "api_bind = \"127.0.0.1:8080\"\nlog_level = \"debug\"\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config", configName), []byte(toml), 0600))
	require.NoError(t, os.Setenv("LOCKBOXD_BIND", "tcp://0.0.0.0:26000"))
	defer os.Unsetenv("LOCKBOXD_BIND")

	conf, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", conf.APIBind)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "tcp://0.0.0.0:26000", conf.Bind)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "error", "none"} {
		_, err := NewLogger(level)
		assert.NoError(t, err, level)
	}
	_, err := NewLogger("loud")
	assert.True(t, errors.ErrInput.Is(err))
}
