package timer

import (
	"context"
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPumpFiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	var got []string
	mustRegister(t, loop, 30*time.Millisecond, func() { got = append(got, "c") })
	mustRegister(t, loop, 10*time.Millisecond, func() { got = append(got, "a") })
	mustRegister(t, loop, 20*time.Millisecond, func() { got = append(got, "b") })

	if n := loop.Pump(clock.Advance(15 * time.Millisecond)); n != 1 {
		t.Fatalf("expected 1 timer at +15ms, fired %d", n)
	}
	loop.Pump(clock.Advance(20 * time.Millisecond))

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("fired order = %v, want [a b c]", got)
	}
	if loop.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", loop.Pending())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	fired := 0
	h := mustRegister(t, loop, 10*time.Millisecond, func() { fired++ })
	other := mustRegister(t, loop, 10*time.Millisecond, func() { fired += 10 })

	loop.Cancel(h)
	loop.Cancel(h)
	loop.Cancel(0)
	loop.Cancel(Handle(999))

	if !loop.Armed(other) {
		t.Fatal("cancelling one handle disarmed another")
	}
	loop.Pump(clock.Advance(time.Second))
	if fired != 10 {
		t.Errorf("fired = %d, want only the uncancelled timer (10)", fired)
	}

	// cancelling after it fired
	loop.Cancel(other)
}

func TestTimersArmedDuringPumpWaitForNextPump(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	runs := 0
	var step func()
	step = func() {
		runs++
		if _, err := loop.Register(0, step); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	mustRegister(t, loop, 0, step)

	loop.Pump(clock.Now())
	if runs != 1 {
		t.Fatalf("zero-delay chain ran %d times in one pump, want 1", runs)
	}
	loop.Pump(clock.Now())
	if runs != 2 {
		t.Errorf("second pump ran chain to %d, want 2", runs)
	}
}

func TestPostRunsBeforeTimers(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	var got []string
	mustRegister(t, loop, 0, func() { got = append(got, "timer") })
	loop.Post(func() { got = append(got, "posted") })

	loop.Pump(clock.Now())
	if len(got) != 2 || got[0] != "posted" || got[1] != "timer" {
		t.Errorf("order = %v, want [posted timer]", got)
	}
}

func TestRegisterAfterClose(t *testing.T) {
	loop := NewLoop(NewManualClock(epoch))
	mustRegister(t, loop, time.Second, func() {})
	loop.Close()

	if _, err := loop.Register(time.Second, func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Register after Close error = %v, want ErrClosed", err)
	}
	if loop.Pending() != 0 {
		t.Errorf("Close left %d timers armed", loop.Pending())
	}
	loop.Post(func() { t.Error("closure posted after Close ran") })
	loop.Pump(epoch.Add(time.Hour))
}

func TestRunDispatchesRealTimers(t *testing.T) {
	loop := NewLoop(SystemClock{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	loop.Post(func() {
		if _, err := loop.Register(5*time.Millisecond, func() { close(done) }); err != nil {
			t.Errorf("register: %v", err)
		}
	})

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timer never fired")
	}
	loop.Close()
	if err := <-errCh; !errors.Is(err, ErrClosed) {
		t.Errorf("Run returned %v, want ErrClosed", err)
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	if got := c.Advance(90 * time.Second); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Errorf("Advance returned %v", got)
	}
	c.Set(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Set did not take, now %v", c.Now())
	}
}

func mustRegister(t *testing.T, loop *Loop, d time.Duration, fn func()) Handle {
	t.Helper()
	h, err := loop.Register(d, fn)
	if err != nil {
		t.Fatalf("Register(%v): %v", d, err)
	}
	return h
}
