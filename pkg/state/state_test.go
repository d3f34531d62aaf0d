package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverbeek/reportpool/pkg/core"
)

func TestNew_AllQueued(t *testing.T) {
	s := New(5)

	require.Equal(t, 5, s.Len())
	for i := 0; i < 5; i++ {
		assert.Equal(t, core.StatusQueued, s.Get(i))
	}
	assert.False(t, s.AllTerminal())
	assert.Equal(t, 0, s.CountTerminal())
}

func TestNew_ZeroSlots_TriviallyTerminal(t *testing.T) {
	s := New(0)

	assert.Equal(t, 0, s.Len())
	assert.True(t, s.AllTerminal())
}

func TestSet_FullLifecycle(t *testing.T) {
	s := New(2)

	s.Set(0, core.StatusRunning)
	assert.Equal(t, core.StatusRunning, s.Get(0))
	assert.False(t, s.AllTerminal())

	s.Set(0, core.StatusSucceeded)
	assert.Equal(t, core.StatusSucceeded, s.Get(0))
	assert.False(t, s.AllTerminal(), "slot 1 is still queued")

	s.Set(1, core.StatusRunning)
	s.Set(1, core.StatusFailed)
	assert.True(t, s.AllTerminal())
	assert.Equal(t, 2, s.CountTerminal())
}

func TestSet_SkippingRunning_Panics(t *testing.T) {
	s := New(1)

	assert.Panics(t, func() {
		s.Set(0, core.StatusSucceeded)
	})
}

func TestSet_Regression_Panics(t *testing.T) {
	s := New(1)
	s.Set(0, core.StatusRunning)
	s.Set(0, core.StatusSucceeded)

	assert.Panics(t, func() {
		s.Set(0, core.StatusRunning)
	})
}

func TestSet_TerminalFlip_Panics(t *testing.T) {
	s := New(1)
	s.Set(0, core.StatusRunning)
	s.Set(0, core.StatusFailed)

	assert.Panics(t, func() {
		s.Set(0, core.StatusSucceeded)
	})
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(3)
	s.Set(0, core.StatusRunning)

	snap := s.Snapshot()
	require.Equal(t, []core.JobStatus{core.StatusRunning, core.StatusQueued, core.StatusQueued}, snap)

	// Mutating the snapshot must not touch the shared table.
	snap[1] = core.StatusFailed
	assert.Equal(t, core.StatusQueued, s.Get(1))
}

func TestConcurrentWriters_OnePerSlot(t *testing.T) {
	const n = 64
	s := New(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set(i, core.StatusRunning)
			if i%2 == 0 {
				s.Set(i, core.StatusSucceeded)
			} else {
				s.Set(i, core.StatusFailed)
			}
		}(i)
	}

	// Concurrent readers while writers flip slots.
	for j := 0; j < 4; j++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				_ = s.Snapshot()
				_ = s.AllTerminal()
			}
		}()
	}

	wg.Wait()
	assert.True(t, s.AllTerminal())
	assert.Equal(t, n, s.CountTerminal())
}
