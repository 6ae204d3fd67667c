package model

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/dastarkhwan/dastarkhwan/common"
)

func TestWithSQLiteWriteRetryRecoversFromLock(t *testing.T) {
	prev := common.UsingSQLite.Load()
	common.UsingSQLite.Store(true)
	defer common.UsingSQLite.Store(prev)

	calls := 0
	err := withSQLiteWriteRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestWithSQLiteWriteRetryGivesUpEventually(t *testing.T) {
	prev := common.UsingSQLite.Load()
	common.UsingSQLite.Store(true)
	defer common.UsingSQLite.Store(prev)

	calls := 0
	err := withSQLiteWriteRetry(nil, func() error {
		calls++
		return errors.New("database is locked")
	})
	require.Error(t, err)
	require.Equal(t, sqliteWriteRetries+1, calls)
}

func TestWithSQLiteWriteRetrySkipsOtherBackends(t *testing.T) {
	prev := common.UsingSQLite.Load()
	common.UsingSQLite.Store(false)
	defer common.UsingSQLite.Store(prev)

	calls := 0
	err := withSQLiteWriteRetry(nil, func() error {
		calls++
		return errors.New("database is locked")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
