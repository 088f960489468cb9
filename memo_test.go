package kestrel_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kestrelrun/kestrel"
)

func TestMemoCachesResult(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	memo := kestrel.NewMemo[int]()

	var calls int32
	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		task := memo.Spawn(sched, kestrel.CancelToken{}, "k", fn)
		v, err := kestrel.Await(task)
		if err != nil {
			t.Fatalf("Await returned error %v, want nil", err)
		}
		if v != 42 {
			t.Fatalf("Await returned %d, want 42", v)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fn called %d times, want exactly 1", got)
	}
}

func TestMemoCoalescesConcurrentCallers(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	memo := kestrel.NewMemo[int]()

	release := make(chan struct{})
	var calls int32
	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	const n = 5
	tasks := make([]*kestrel.Task[int], n)
	for i := range tasks {
		tasks[i] = memo.Spawn(sched, kestrel.CancelToken{}, "shared", fn)
	}
	close(release)

	var wg sync.WaitGroup
	wg.Add(n)
	for _, task := range tasks {
		task := task
		go func() {
			defer wg.Done()
			v, err := kestrel.Await(task)
			if err != nil {
				t.Errorf("Await returned error %v, want nil", err)
			}
			if v != 7 {
				t.Errorf("Await returned %d, want 7", v)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fn called %d times, want exactly 1 (calls should coalesce)", got)
	}
}

func TestMemoInvalidateForcesRecompute(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	memo := kestrel.NewMemo[int]()

	var calls int32
	fn := func(ctx context.Context) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		return int(n), nil
	}

	v1, _ := kestrel.Await(memo.Spawn(sched, kestrel.CancelToken{}, "k", fn))
	memo.Invalidate("k")
	v2, _ := kestrel.Await(memo.Spawn(sched, kestrel.CancelToken{}, "k", fn))

	if v1 == v2 {
		t.Fatalf("v1 == v2 == %d, want Invalidate to force a fresh computation", v1)
	}
}

func TestMemoErrorNotCached(t *testing.T) {
	sched := kestrel.NewScheduler()
	go sched.Run()
	defer sched.Stop()

	memo := kestrel.NewMemo[int]()

	want := errors.New("transient failure")
	_, err := kestrel.Await(memo.Spawn(sched, kestrel.CancelToken{}, "k", func(ctx context.Context) (int, error) {
		return 0, want
	}))
	if !errors.Is(err, want) {
		t.Fatalf("Await returned %v, want %v", err, want)
	}

	v, err := kestrel.Await(memo.Spawn(sched, kestrel.CancelToken{}, "k", func(ctx context.Context) (int, error) {
		return 99, nil
	}))
	if err != nil || v != 99 {
		t.Fatalf("Await returned (%d, %v), want (99, nil) — a failed call must not poison the cache", v, err)
	}
}
