package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"super-tasks/internal/testutil"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("08:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 8 * * *", spec)

	for _, bad := range []string{"", "8", "24:00", "12:60", "aa:bb", "1:2:3"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerDailyNext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	loc := time.FixedZone("JST", 9*3600)
	s := NewSchedulerService(loc, testutil.Logger())
	id, err := s.ScheduleDaily("07:15", func() {})
	require.NoError(t, err)

	s.Start()
	next := s.Next(id).In(loc)
	s.Stop()

	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 15, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestSchedulerRecoversFromPanickingJob(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := NewSchedulerService(time.UTC, testutil.Logger())
	var runs atomic.Int32
	ran := make(chan struct{}, 8)
	_, err := s.ScheduleInterval(time.Second, func() {
		n := runs.Add(1)
		ran <- struct{}{}
		if n == 1 {
			panic("boom")
		}
	})
	require.NoError(t, err)

	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)

	s.Start()
	for i := 0; i < 3; i++ {
		select {
		case <-ran:
		case <-time.After(5 * time.Second):
			s.Stop()
			t.Fatalf("job stopped running after %d runs", runs.Load())
		}
	}
	s.Stop()
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}
