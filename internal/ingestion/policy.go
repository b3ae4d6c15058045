package ingestion

import (
	"fmt"
	"time"
)

// Policy bounds the fail-open polling loop. The loop resolves to ready after
// MaxAttempts ticks without progress or after HardTimeout, whichever comes first.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
	HardTimeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Interval:    time.Second,
		MaxAttempts: 30,
		HardTimeout: 10 * time.Second,
	}
}

func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if p.HardTimeout <= 0 {
		return fmt.Errorf("hard timeout must be positive")
	}
	return nil
}
