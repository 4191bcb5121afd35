package maintenance

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSnapshotter struct {
	saves atomic.Int64
}

func (c *countingSnapshotter) SaveIfDirty() error {
	c.saves.Add(1)
	return nil
}

type countingSweeper struct {
	sweeps atomic.Int64
}

func (c *countingSweeper) Sweep(ctx context.Context) (int64, error) {
	c.sweeps.Add(1)
	return 0, nil
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	r := New(nil)
	if err := r.ScheduleSnapshot("not a cron spec", &countingSnapshotter{}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	if err := r.ScheduleCacheSweep("also bad", &countingSweeper{}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestScheduledJobsRun(t *testing.T) {
	r := New(nil)
	snap := &countingSnapshotter{}
	sweep := &countingSweeper{}

	if err := r.ScheduleSnapshot("@every 10ms", snap); err != nil {
		t.Fatal(err)
	}
	if err := r.ScheduleCacheSweep("@every 10ms", sweep); err != nil {
		t.Fatal(err)
	}

	r.Start()
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	if snap.saves.Load() == 0 {
		t.Fatal("snapshot job never ran")
	}
	if sweep.sweeps.Load() == 0 {
		t.Fatal("sweep job never ran")
	}
}

func TestStopWaitsForJobs(t *testing.T) {
	r := New(nil)
	started := make(chan struct{}, 8)
	var finished atomic.Int64
	var inFlight atomic.Int64

	slow := &funcSnapshotter{fn: func() error {
		inFlight.Add(1)
		started <- struct{}{}
		time.Sleep(30 * time.Millisecond)
		finished.Add(1)
		inFlight.Add(-1)
		return nil
	}}
	if err := r.ScheduleSnapshot("@every 10ms", slow); err != nil {
		t.Fatal(err)
	}

	r.Start()
	<-started
	r.Stop()

	if inFlight.Load() != 0 {
		t.Fatal("Stop returned while a job was still running")
	}
	if finished.Load() == 0 {
		t.Fatal("no job completed")
	}
}

type funcSnapshotter struct {
	fn func() error
}

func (f *funcSnapshotter) SaveIfDirty() error { return f.fn() }
