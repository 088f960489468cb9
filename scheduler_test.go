package kestrel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kestrelrun/kestrel"
)

func TestSchedulerFIFOOrder(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		i := i
		sched.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want jobs posted from one goroutine to run in post order", order)
		}
	}
}

func TestSchedulerStopDrainsQueue(t *testing.T) {
	sched := kestrel.NewScheduler()

	var ran int32
	var mu sync.Mutex
	done := make(chan struct{})

	sched.Post(func() {
		mu.Lock()
		ran++
		mu.Unlock()
	})
	sched.Post(func() {
		mu.Lock()
		ran++
		mu.Unlock()
		close(done)
	})
	sched.Stop()

	go sched.Run()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if ran != 2 {
		t.Fatalf("ran = %d, want 2 (Stop must drain, not drop, queued jobs)", ran)
	}
}

func TestSchedulerPending(t *testing.T) {
	sched := kestrel.NewScheduler()

	block := make(chan struct{})
	sched.Post(func() { <-block })
	sched.Post(func() {})
	sched.Post(func() {})

	go sched.Run()
	time.Sleep(10 * time.Millisecond) // let the first job start and block

	if got := sched.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}

	close(block)
	sched.Stop()
}

func TestSchedulerSchedule(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	if err := sched.Schedule(context.Background()); err != nil {
		t.Fatalf("Schedule returned %v, want nil", err)
	}
}

func TestSchedulerScheduleCanceled(t *testing.T) {
	sched := kestrel.NewScheduler()
	// Deliberately never run: Schedule must still return once ctx is done.

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sched.Schedule(ctx); !kestrel.IsKind(err, kestrel.KindCanceled) {
		t.Fatalf("Schedule returned %v, want a canceled error", err)
	}
}
