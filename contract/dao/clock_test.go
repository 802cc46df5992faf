package dao

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPeriod = uint64(1_000_000_000)

func TestPeriodClockRejectsZeroDuration(t *testing.T) {
	_, err := NewPeriodClock(0, 0)
	assert.ErrorIs(t, err, ErrZeroPeriodDuration)
}

func TestCurrentPeriod(t *testing.T) {
	c, err := NewPeriodClock(5*testPeriod, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.CurrentPeriod(0), "before summoning saturates to 0")
	assert.Equal(t, uint64(0), c.CurrentPeriod(5*testPeriod))
	assert.Equal(t, uint64(0), c.CurrentPeriod(6*testPeriod-1))
	assert.Equal(t, uint64(3), c.CurrentPeriod(8*testPeriod))
}

func TestHasVotingPeriodExpired(t *testing.T) {
	c, err := NewPeriodClock(0, testPeriod)
	require.NoError(t, err)
	assert.False(t, c.HasVotingPeriodExpired(3*testPeriod, 1, 3))
	assert.True(t, c.HasVotingPeriodExpired(4*testPeriod, 1, 3))
	assert.False(t, c.HasVotingPeriodExpired(math.MaxUint64, math.MaxUint64, 3), "start+len saturates")
}

func TestPeriodStart(t *testing.T) {
	c, err := NewPeriodClock(100, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(130), c.PeriodStart(3))
	assert.Equal(t, uint64(3), c.CurrentPeriod(c.PeriodStart(3)))
	assert.Equal(t, uint64(math.MaxUint64), c.PeriodStart(math.MaxUint64))
}

func TestPhaseAt(t *testing.T) {
	p := &Proposal{StartingPeriod: 1}
	assert.Equal(t, PhaseSubmitted, p.PhaseAt(0, 3, 2))
	assert.Equal(t, PhaseVotable, p.PhaseAt(1, 3, 2))
	assert.Equal(t, PhaseGrace, p.PhaseAt(4, 3, 2))
	assert.Equal(t, PhaseProcessable, p.PhaseAt(6, 3, 2))
	p.Aborted = true
	assert.Equal(t, PhaseAborted, p.PhaseAt(6, 3, 2))
	p.Processed = true
	assert.Equal(t, PhaseFailed, p.PhaseAt(6, 3, 2))
	p.DidPass = true
	assert.Equal(t, "passed", p.PhaseAt(6, 3, 2).String())
}
