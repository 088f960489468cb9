package kestrel_test

import (
	"testing"
	"time"

	"github.com/kestrelrun/kestrel"
)

func TestRuntimeDefaultHasOneWorkerPool(t *testing.T) {
	rt := kestrel.NewRuntime()
	go rt.Run()
	defer rt.Stop()

	if rt.Pool() == nil {
		t.Fatal("default Runtime has no Pool")
	}
	if rt.Timer() != nil {
		t.Fatal("default Runtime unexpectedly has a Timer")
	}
	if rt.Signals() != nil {
		t.Fatal("default Runtime unexpectedly has a SignalSet")
	}

	task := kestrel.SubmitTask(rt.Pool(), kestrel.CancelToken{}, func() (int, error) {
		return 5, nil
	})
	v, err := kestrel.Await(task)
	if err != nil || v != 5 {
		t.Fatalf("Await returned (%d, %v), want (5, nil)", v, err)
	}
}

func TestRuntimeWithTimer(t *testing.T) {
	rt := kestrel.NewRuntime(kestrel.WithTimer())
	go rt.Run()
	defer rt.Stop()

	if rt.Timer() == nil {
		t.Fatal("WithTimer did not create a Timer")
	}

	task := rt.Timer().SleepFor(5*time.Millisecond, kestrel.CancelToken{})
	if _, err := kestrel.Await(task); err != nil {
		t.Fatalf("Await returned error %v, want nil", err)
	}
}

func TestRuntimePostSatisfiesResumer(t *testing.T) {
	rt := kestrel.NewRuntime()
	go rt.Run()
	defer rt.Stop()

	var _ kestrel.Resumer = rt

	done := make(chan struct{})
	rt.Post(func() { close(done) })
	<-done
}

func TestRuntimeStopIsIdempotent(t *testing.T) {
	rt := kestrel.NewRuntime(kestrel.WithTimer())
	go rt.Run()

	rt.Stop()
	rt.Stop() // must not panic or block

	task := rt.Timer().SleepFor(time.Millisecond, kestrel.CancelToken{})
	if _, err := kestrel.Await(task); !kestrel.IsKind(err, kestrel.KindStopped) {
		t.Fatalf("Await returned %v, want a stopped error since the Timer was already stopped", err)
	}
}
