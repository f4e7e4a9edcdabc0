package config

import (
	"bytes"
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"TASKHUB_ADDR", "TASKHUB_STORE", "TASKHUB_DB_PATH", "TASKHUB_LOG_LEVEL", "TASKHUB_LOG_FORMAT", "TASKHUB_SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "data/taskhub.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TASKHUB_ADDR", ":9000")
	t.Setenv("TASKHUB_STORE", "SQLite")
	t.Setenv("TASKHUB_DB_PATH", "/tmp/tasks.db")
	t.Setenv("TASKHUB_LOG_LEVEL", "debug")
	t.Setenv("TASKHUB_SHUTDOWN_TIMEOUT", "20s")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("TASKHUB_STORE", StoreSQLite)

	cfg, err := Load([]string{"-store", "redis", "-redis-url", "redis://cache:6379/2", "-log-format", "json"})
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TASKHUB_POSTGRES_DSN", "")

	testCases := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown store", args: []string{"-store", "dynamo"}, errContains: "invalid store"},
		{name: "postgres without dsn", args: []string{"-store", "postgres"}, errContains: "postgres DSN"},
		{name: "sqlite without path", args: []string{"-store", "sqlite", "-db", " "}, errContains: "database path"},
		{name: "redis without url", args: []string{"-store", "redis", "-redis-url", ""}, errContains: "redis URL"},
		{name: "bad log level", args: []string{"-log-level", "loud"}, errContains: "invalid log level"},
		{name: "bad log format", args: []string{"-log-format", "xml"}, errContains: "invalid log format"},
		{name: "zero shutdown timeout", args: []string{"-shutdown-timeout", "0s"}, errContains: "shutdown timeout"},
		{name: "unknown flag", args: []string{"-verbose"}, errContains: "flag provided but not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)
			require.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "task_id", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"task_id":"abc"`)
}
