package model

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/dastarkhwan/dastarkhwan/common"
)

// SQLite serialises writers, so a seed run racing an admin update can hit
// "database is locked". Model writes funnel through withSQLiteWriteRetry,
// which backs off linearly and gives up after a handful of attempts.
// MySQL and PostgreSQL handle their own lock waits and pass straight
// through.

const (
	sqliteWriteRetries    = 5
	sqliteWriteRetryDelay = 20 * time.Millisecond
)

func withSQLiteWriteRetry(ctx context.Context, write func() error) error {
	if !common.UsingSQLite.Load() {
		return write()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = write()
		if err == nil || !sqliteBusy(err) || attempt == sqliteWriteRetries {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(err, "wait for sqlite write lock")
		case <-time.After(time.Duration(attempt+1) * sqliteWriteRetryDelay):
		}
	}
	if err != nil && sqliteBusy(err) {
		return errors.Wrap(err, "sqlite still locked after retries")
	}
	return err
}

func sqliteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"database is locked",
		"database table is locked",
		"database is busy",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
