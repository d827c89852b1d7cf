package database

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/mattn/go-sqlite3"
)

// withWriteRetry retries a write statement a few times when sqlite reports the
// database as busy or locked. Anything else fails immediately.
func withWriteRetry(fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
	)
}

func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}
