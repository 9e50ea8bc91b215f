// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file values overlay defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  addr: ":9000"
database:
  url: "postgres://localhost/pixelhaven"
log:
  level: debug
`)
		cfg, err := Load(path, nil)
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.Server.Addr)
		assert.Equal(t, "postgres://localhost/pixelhaven", cfg.Database.URL)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format, "default survives partial file")
		assert.Equal(t, "127.0.0.1:9100", cfg.Observability.Addr)
	})

	t.Run("flags override the file", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  url: "postgres://localhost/pixelhaven"
log:
  format: json
`)
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("log.format", "", "")
		require.NoError(t, flags.Set("log.format", "text"))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("database.url", "", "")
		require.NoError(t, flags.Set("database.url", "postgres://localhost/pixelhaven"))

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), flags)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
	})

	t.Run("missing database url rejected", func(t *testing.T) {
		_, err := Load("", nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := writeConfigFile(t, "server: [not: a map")
		_, err := Load(path, nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_FILE_FAILED")
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Database.URL = "postgres://localhost/pixelhaven"
	require.NoError(t, cfg.Validate())

	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}
