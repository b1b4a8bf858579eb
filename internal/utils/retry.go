package utils

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// Startup dependencies (PostgreSQL, Redis) get a few attempts before the process gives up.
var (
	RetryAttemptNum = uint(5)
	RetryAttempts   = retry.Attempts(RetryAttemptNum)
	RetryDelay      = retry.Delay(time.Millisecond * 400)
	RetryErr        = retry.LastErrorOnly(true)
)
