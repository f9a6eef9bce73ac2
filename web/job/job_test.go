package job

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vocabnest/vocabnest/config"
	"github.com/vocabnest/vocabnest/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointJob(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitDB(config.NewSQLiteConfig(dbPath)))
	t.Cleanup(func() { _ = database.CloseDB() })

	assert.NotPanics(t, NewCheckpointJob().Run)
}

func TestCheckRedisJobCountsFailures(t *testing.T) {
	var down bool
	j := &CheckRedisJob{ping: func() error {
		if down {
			return errors.New("connection refused")
		}
		return nil
	}}

	j.Run()
	assert.Equal(t, 0, j.failures)

	down = true
	j.Run()
	j.Run()
	j.Run()
	assert.Equal(t, 3, j.failures)

	down = false
	j.Run()
	assert.Equal(t, 0, j.failures)
}

func TestJobPanicIsContained(t *testing.T) {
	j := &CheckRedisJob{ping: func() error { panic("nil client") }}
	assert.NotPanics(t, j.Run)
}
