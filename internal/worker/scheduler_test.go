package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/jamdungjobs/reminder-dispatcher/internal/mocks/worker"
	"github.com/jamdungjobs/reminder-dispatcher/internal/service/reminder"
)

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := mocks.NewMockdispatcher(ctrl)

	var calls atomic.Int32
	d.EXPECT().Run(gomock.Any()).
		DoAndReturn(func(context.Context) (reminder.RunStats, error) {
			calls.Add(1)
			return reminder.RunStats{}, nil
		}).
		MinTimes(3)

	s := NewScheduler(d, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestScheduler_KeepsRunningAfterErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := mocks.NewMockdispatcher(ctrl)

	var calls atomic.Int32
	d.EXPECT().Run(gomock.Any()).
		DoAndReturn(func(context.Context) (reminder.RunStats, error) {
			switch calls.Add(1) {
			case 1:
				return reminder.RunStats{}, errors.New("connection refused")
			case 2:
				return reminder.RunStats{}, reminder.ErrRunInProgress
			default:
				return reminder.RunStats{Dispatched: 1}, nil
			}
		}).
		MinTimes(3)

	s := NewScheduler(d, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestScheduler_StopsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := mocks.NewMockdispatcher(ctrl)
	d.EXPECT().Run(gomock.Any()).Return(reminder.RunStats{}, context.Canceled).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(d, time.Hour)

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
