package acquisition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_ArmOnce(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{}, 2)

	assert.True(t, s.Arm(10*time.Millisecond, func() { fired <- struct{}{} }))

	// Re-entrant arm requests while pending are ignored.
	assert.False(t, s.Arm(10*time.Millisecond, func() { fired <- struct{}{} }))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	// Only the first callback ran.
	select {
	case <-fired:
		t.Fatal("ignored arm request fired anyway")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduler_RearmAfterFire(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{}, 1)

	require.True(t, s.Arm(5*time.Millisecond, func() { fired <- struct{}{} }))
	<-fired

	assert.True(t, s.Arm(5*time.Millisecond, func() { fired <- struct{}{} }))
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("second shot never fired")
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{}, 1)

	require.True(t, s.Arm(20*time.Millisecond, func() { fired <- struct{}{} }))
	s.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}

	// Stopped scheduler accepts a fresh arm.
	assert.True(t, s.Arm(5*time.Millisecond, func() { fired <- struct{}{} }))
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("re-armed shot never fired")
	}
}
