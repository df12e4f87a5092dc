package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCategoryLoggersShareCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() { SetBase(zap.NewNop()) })

	Ingest("loaded %d records", 12)
	CacheWarn("cache corrupt: %s", "bad magic")
	Get(CategoryAdvisory).With("key", "enemy_Runebear_Limgrave").Debug("hit")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "ingest", entries[0].LoggerName)
	assert.Equal(t, "loaded 12 records", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "cache", entries[1].LoggerName)
	assert.Equal(t, "enemy_Runebear_Limgrave", entries[2].ContextMap()["key"])
}

func TestDisabledCategoryIsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	replace(zap.New(core), Options{Categories: map[string]bool{"query": false}})
	t.Cleanup(func() { SetBase(zap.NewNop()) })

	assert.False(t, IsCategoryEnabled(CategoryQuery))
	assert.True(t, IsCategoryEnabled(CategoryIngest))

	QueryDebug("should not appear")
	IngestDebug("should appear")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "should appear", entries[0].Message)
}

func TestInitializeWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "enemyintel.log")
	require.NoError(t, Initialize(Options{Level: "info", Format: "json", File: path}))
	t.Cleanup(func() { SetBase(zap.NewNop()) })

	Boot("server listening on %s", ":5001")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server listening on :5001")
	assert.Contains(t, string(data), `"logger":"boot"`)
}

func TestInitializeRejectsBadOptions(t *testing.T) {
	assert.Error(t, Initialize(Options{Level: "loud"}))
	assert.Error(t, Initialize(Options{Format: "xml"}))
}
