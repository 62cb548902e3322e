package gateway

import (
	"fmt"
	"time"
)

// Settler reads a UI value that is known to render wrong at first and only
// returns it once it has stopped changing.
//
// It is a workaround for the extension's settings frame, whose wifi toggle
// initially shows "on" and then refreshes to the real state. It is not a
// general wait primitive.
type Settler struct {
	// MinDelay is waited before the first read. Nothing earlier is trusted.
	MinDelay time.Duration

	// Interval separates consecutive reads.
	Interval time.Duration

	// Timeout bounds the polling that follows MinDelay.
	Timeout time.Duration

	sleep func(time.Duration)
}

// DefaultSettler matches the settle time the extension firmware needs.
func DefaultSettler() Settler {
	return Settler{
		MinDelay: 2 * time.Second,
		Interval: 250 * time.Millisecond,
		Timeout:  6 * time.Second,
	}
}

// Read calls read until two consecutive results agree and returns that result.
func (s Settler) Read(read func() (string, error)) (string, error) {
	sleep := s.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	sleep(s.MinDelay)
	prev, err := read()
	if err != nil {
		return "", err
	}

	for waited := time.Duration(0); waited < s.Timeout; waited += interval {
		sleep(interval)
		cur, err := read()
		if err != nil {
			return "", err
		}
		if cur == prev {
			return cur, nil
		}
		prev = cur
	}

	return "", fmt.Errorf("%w: value still changing after %s (last %q)", ErrTimeout, s.MinDelay+s.Timeout, prev)
}
