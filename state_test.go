package shttp

import (
	"sync"
	"testing"
)

type testConfig struct {
	Name string
}

type testState struct {
	N int
}

func TestState_ConfigNeedsNoLock(t *testing.T) {
	st := NewState(&testConfig{Name: "app"}, &testState{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if st.Config().(*testConfig).Name != "app" {
				t.Error("config read mismatch")
			}
		}()
	}
	wg.Wait()
}

func TestState_ConcurrentUpdatesAreSerialized(t *testing.T) {
	st := NewState(nil, &testState{})
	const workers = 32
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				st.Update(func(dyn any) {
					dyn.(*testState).N++
				})
			}
		}()
	}
	wg.Wait()

	var got int
	st.View(func(dyn any) {
		got = dyn.(*testState).N
	})
	if got != workers*perWorker {
		t.Fatalf("counter=%d, want %d (lost updates)", got, workers*perWorker)
	}
}
