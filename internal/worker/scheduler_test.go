package worker

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Output: io.Discard,
	})
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(func(context.Context) {}, testLogger(), metrics.NewTestMetrics())

	err := s.Start("not a cron spec")
	require.Error(t, err)
	assert.False(t, s.Running())
}

func TestStartFiresImmediateTick(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewScheduler(func(context.Context) {
		fired <- struct{}{}
	}, testLogger(), metrics.NewTestMetrics())

	require.NoError(t, s.Start("@every 1h"))
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate tick did not fire")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	var ticks int32
	s := NewScheduler(func(context.Context) {
		atomic.AddInt32(&ticks, 1)
	}, testLogger(), metrics.NewTestMetrics())

	require.NoError(t, s.Start("@every 1h"))
	require.NoError(t, s.Start("@every 1h"))
	assert.True(t, s.Running())

	// Only the first start registers a trigger, so only one immediate
	// tick fires.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ticks))

	s.Stop()
	assert.False(t, s.Running())
}

func TestStopIsNoOpWhenStopped(t *testing.T) {
	s := NewScheduler(func(context.Context) {}, testLogger(), metrics.NewTestMetrics())

	s.Stop()
	assert.False(t, s.Running())
}

func TestSchedulerIsRestartable(t *testing.T) {
	s := NewScheduler(func(context.Context) {}, testLogger(), metrics.NewTestMetrics())

	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
	require.NoError(t, s.Start("@every 1h"))
	assert.True(t, s.Running())
	s.Stop()
}

func TestOverlappingFiringIsSkipped(t *testing.T) {
	m := metrics.NewTestMetrics()
	block := make(chan struct{})
	started := make(chan struct{})
	var ticks int32

	s := NewScheduler(func(context.Context) {
		atomic.AddInt32(&ticks, 1)
		close(started)
		<-block
	}, testLogger(), m)

	go s.fire()
	<-started

	// A firing while the first tick is in flight must be skipped, not
	// run concurrently.
	s.fire()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ticks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TicksSkippedOverlap))

	close(block)
}
