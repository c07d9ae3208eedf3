package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeManagerDepth(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name      string
		remaining int
		want      int
	}{
		{"full clock", 100_000, 3},
		{"just above threshold", 33_000, 3},
		{"below threshold", 32_999, 2},
		{"flag about to fall", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := NewTimeManager(fakeTimer{remaining: tt.remaining, start: 100_000}, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tm.Depth())
			assert.False(t, tm.Deadline().IsZero())
		})
	}
}

func TestTimeManagerDeadline(t *testing.T) {
	opts := DefaultOptions()

	tm, err := NewTimeManager(fakeTimer{remaining: 60_000, start: 60_000}, opts)
	require.NoError(t, err)
	budget := tm.Deadline().Sub(tm.startTime)
	assert.Equal(t, 2*time.Second, budget, "remaining / moves to go")

	tm, err = NewTimeManager(fakeTimer{remaining: 5, start: 60_000}, opts)
	require.NoError(t, err)
	assert.Equal(t, minMoveTime, tm.Deadline().Sub(tm.startTime))
}

func TestTimeManagerInvalidBudget(t *testing.T) {
	opts := DefaultOptions()
	for _, timer := range []fakeTimer{
		{remaining: -1, start: 1000},
		{remaining: 10, elapsed: -3, start: 1000},
		{remaining: 10, start: 0},
	} {
		tm, err := NewTimeManager(timer, opts)
		assert.ErrorIs(t, err, ErrInvalidTimeBudget)
		require.NotNil(t, tm)
		assert.Equal(t, opts.ReducedDepth, tm.Depth())
		assert.True(t, tm.Deadline().IsZero())
	}
}

func TestTimeManagerPressure(t *testing.T) {
	opts := DefaultOptions()
	tm, err := NewTimeManager(fakeTimer{remaining: 1000, elapsed: 0, start: 1000}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tm.Pressure(), "off by default")

	opts.TimePressure = true
	tm, err = NewTimeManager(fakeTimer{remaining: 1000, elapsed: 0, start: 1000}, opts)
	require.NoError(t, err)
	assert.Equal(t, maxPressure, tm.Pressure())

	tm, err = NewTimeManager(fakeTimer{remaining: 100, elapsed: 1000, start: 1000}, opts)
	require.NoError(t, err)
	assert.Equal(t, minPressure, tm.Pressure())

	tm, err = NewTimeManager(fakeTimer{remaining: 1500, elapsed: 1000, start: 3000}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1.5, tm.Pressure())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, clamp(7, 0, 5))
	assert.Equal(t, 0, clamp(-2, 0, 5))
	assert.Equal(t, 0.5, clamp(0.5, 0.1, 2.0))
}

func TestClock(t *testing.T) {
	c := NewClock(time.Second, time.Second, 100*time.Millisecond)
	assert.Equal(t, 1000, c.GameStartMilliseconds())
	assert.Equal(t, 0, c.MillisecondsElapsedThisTurn())

	c.StartTurn()
	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, c.MillisecondsElapsedThisTurn(), 20)
	assert.LessOrEqual(t, c.MillisecondsRemaining(), 980)

	used := c.StopTurn()
	assert.GreaterOrEqual(t, used, 20*time.Millisecond)
	assert.Equal(t, 0, c.MillisecondsElapsedThisTurn())
	assert.Greater(t, c.MillisecondsRemaining(), 980, "increment added")
	assert.False(t, c.Flagged())
}

func TestClockFlagFall(t *testing.T) {
	c := NewClock(time.Second, 5*time.Millisecond, time.Second)
	c.StartTurn()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.Flagged())

	c.StopTurn()
	assert.True(t, c.Flagged(), "no increment once flagged")
}
