package dao

import (
	"errors"
	"math"
)

var ErrZeroPeriodDuration = errors.New("period_duration must be greater than 0")

// PeriodClock turns nanosecond timestamps into period numbers.
type PeriodClock struct {
	summoning uint64
	duration  uint64
}

// NewPeriodClock refuses a zero duration so CurrentPeriod can never divide by zero.
func NewPeriodClock(summoningTime, periodDuration uint64) (PeriodClock, error) {
	if periodDuration == 0 {
		return PeriodClock{}, ErrZeroPeriodDuration
	}
	return PeriodClock{summoning: summoningTime, duration: periodDuration}, nil
}

// CurrentPeriod is floor((now - summoning) / duration), 0 before summoning.
// Example payload: clock.CurrentPeriod(env.Timestamp)
func (c PeriodClock) CurrentPeriod(now uint64) uint64 {
	return SaturatingSubU64(now, c.summoning) / c.duration
}

// HasVotingPeriodExpired reports current >= start + votingLen.
func (c PeriodClock) HasVotingPeriodExpired(now, startingPeriod, votingLen uint64) bool {
	return c.CurrentPeriod(now) >= SaturatingAddU64(startingPeriod, votingLen)
}

// PeriodStart is the first nanosecond of period p, capped at MaxUint64.
func (c PeriodClock) PeriodStart(p uint64) uint64 {
	if p != 0 && c.duration > (math.MaxUint64-c.summoning)/p {
		return math.MaxUint64
	}
	return c.summoning + p*c.duration
}

func (c PeriodClock) Duration() uint64      { return c.duration }
func (c PeriodClock) SummoningTime() uint64 { return c.summoning }

func SaturatingAddU64(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func SaturatingSubU64(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
