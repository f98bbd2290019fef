package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubMinuteIntervalRuns(t *testing.T) {
	var calls atomic.Int64
	s := New(20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("refresh never ran for a sub-minute interval")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
