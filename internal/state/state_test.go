package state

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()
	if got := store.Snapshot().Phase; got != BOOTING {
		t.Fatalf("initial phase = %v, want booting", got)
	}
	store.SetPhase(RUNNING)
	store.UpdateEffect(EffectInfo{Width: 800, Height: 600, Stars: 288})
	store.UpdateHost(HostInfo{Output: "headless", Mount: "#starlight"})

	snap := store.Snapshot()
	if snap.Phase != RUNNING || snap.Effect.Stars != 288 || snap.Host.Output != "headless" {
		t.Errorf("snapshot = %+v", snap)
	}

	store.SetError(errors.New("framebuffer gone"))
	snap = store.Snapshot()
	if snap.Phase != ERROR || snap.Err != "framebuffer gone" {
		t.Errorf("after error: %+v", snap)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{BOOTING, "booting"},
		{RUNNING, "running"},
		{PAUSED, "paused"},
		{DISPOSED, "disposed"},
		{NOMOUNT, "no-mount"},
		{ERROR, "error"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.UpdateEffect(EffectInfo{Frames: n})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
}
