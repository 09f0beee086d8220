package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestClockScalesSimulationOnly(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	mock.Advance(100 * time.Millisecond)
	c.Tick()
	assert.Equal(t, 100*time.Millisecond, c.DeltaTime())

	c.SetScale(0.1)
	mock.Advance(100 * time.Millisecond)
	c.Tick()
	assert.Equal(t, 10*time.Millisecond, c.DeltaTime())
	assert.Equal(t, 100*time.Millisecond, c.UnscaledDeltaTime())
	assert.Equal(t, 110*time.Millisecond, c.SimTime())
	assert.Equal(t, uint64(2), c.Frame())

	c.SetScale(-3)
	assert.Equal(t, 0.0, c.Scale())
}

func TestAfterUsesRealTime(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	s := NewScheduler(mock)
	fired := 0
	task := s.After(300*time.Millisecond, func() { fired++ })

	mock.Advance(299 * time.Millisecond)
	s.Update()
	assert.Equal(t, 0, fired)
	assert.True(t, task.Pending())

	mock.Advance(time.Millisecond)
	s.Update()
	s.Update()
	assert.Equal(t, 1, fired)
	assert.False(t, task.Pending())
	assert.Equal(t, 0, s.Len())
}

func TestCancelledTaskNeverRuns(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	s := NewScheduler(mock)
	fired := false
	task := s.After(time.Second, func() { fired = true })
	task.Cancel()
	mock.Advance(2 * time.Second)
	s.Update()
	assert.False(t, fired)

	var nilTask *Task
	nilTask.Cancel()
	assert.False(t, nilTask.Pending())
}

func TestEndOfFrameTasks(t *testing.T) {
	s := NewScheduler(NewMockTimeProvider(epoch))
	var order []string
	s.AtEndOfFrame(func() {
		order = append(order, "first")
		s.AtEndOfFrame(func() { order = append(order, "second") })
	})

	s.Update()
	assert.Empty(t, order, "Update leaves end-of-frame tasks alone")

	s.EndOfFrame()
	assert.Equal(t, []string{"first"}, order)
	s.EndOfFrame()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestMockTimeProvider(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	assert.True(t, mock.Now().Equal(epoch))
	next := epoch.Add(time.Hour)
	mock.SetTime(next)
	assert.True(t, mock.Now().Equal(next))
}
