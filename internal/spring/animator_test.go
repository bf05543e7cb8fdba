package spring

import (
	"math"
	"testing"
	"time"
)

func runUntilSettled(t *testing.T, a *Animator, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		if !a.Tick(0) {
			return i
		}
	}
	t.Fatalf("spring did not settle within %d ticks (pos=%v vel=%v)", maxTicks, a.Position(), a.Velocity())
	return 0
}

func TestCriticallyDampedConverges(t *testing.T) {
	a := New(60)
	var positions []float64
	a.Subscribe(func(p float64) { positions = append(positions, p) })

	a.Start(0, 100, 0, 1.0, 0.4)
	ticks := runUntilSettled(t, a, 600)

	if got := a.Position(); got != 100 {
		t.Fatalf("expected settled position 100, got %v", got)
	}

	first := -1
	for i, p := range positions {
		if p > 100.5 {
			t.Fatalf("critically damped spring overshot to %v at tick %d", p, i)
		}
		if first < 0 && math.Abs(p-100) < 0.5 {
			first = i
		}
	}
	if first < 0 {
		t.Fatal("position never entered the settled region")
	}
	for i := first; i < len(positions); i++ {
		if math.Abs(positions[i]-100) >= 0.5 {
			t.Fatalf("position left the settled region at tick %d: %v", i, positions[i])
		}
	}
	dwellTicks := int(SettleDwell / a.FrameInterval())
	if len(positions)-first < dwellTicks {
		t.Fatalf("settled after %d ticks in region, want at least %d", len(positions)-first, dwellTicks)
	}
	if ticks != len(positions) {
		t.Fatalf("expected one notification per tick, got %d for %d ticks", len(positions), ticks)
	}
}

func TestDampingRatiosStayBounded(t *testing.T) {
	for _, ratio := range []float64{0.1, 0.3, 0.7, 1.0, 1.5, 2.0} {
		a := New(60)
		maxAbs := 0.0
		a.Subscribe(func(p float64) { maxAbs = math.Max(maxAbs, math.Abs(p)) })
		a.Start(0, 100, 0, ratio, 0.4)
		runUntilSettled(t, a, 5000)
		if maxAbs > 200 {
			t.Fatalf("ratio %v: position diverged to %v", ratio, maxAbs)
		}
	}
}

func TestStartSupersedesRunningSession(t *testing.T) {
	a := New(60)
	var last float64
	a.Subscribe(func(p float64) { last = p })

	a.Start(0, 100, 0, 1.0, 0.4)
	cancelled := 0
	completed := 0
	a.OnSettled(func(done bool) {
		if done {
			completed++
		} else {
			cancelled++
		}
	})
	for range 5 {
		a.Tick(0)
	}
	vel := a.Velocity()
	if vel <= 0 {
		t.Fatalf("expected positive velocity mid-flight, got %v", vel)
	}

	a.Start(0, 300, 0, 1.0, 0.4)
	if cancelled != 1 || completed != 0 {
		t.Fatalf("expected exactly one cancelled completion, got cancelled=%d completed=%d", cancelled, completed)
	}
	if got := a.Position(); got != last {
		t.Fatalf("expected new session to start from %v, got %v", last, got)
	}
	if got := a.Velocity(); got != vel {
		t.Fatalf("expected velocity %v to carry over, got %v", vel, got)
	}

	before := last
	a.Tick(0)
	if last < before || last-before > 50 {
		t.Fatalf("retarget jumped from %v to %v", before, last)
	}
	runUntilSettled(t, a, 600)
	if cancelled != 1 || completed != 0 {
		t.Fatalf("superseded completion fired again: cancelled=%d completed=%d", cancelled, completed)
	}
}

func TestPauseKeepsStateAndCancels(t *testing.T) {
	a := New(60)
	a.Start(0, 100, 0, 0.8, 0.3)
	var results []bool
	a.OnSettled(func(done bool) { results = append(results, done) })
	for range 3 {
		a.Tick(0)
	}
	pos, vel := a.Position(), a.Velocity()

	a.Pause()
	a.Pause()
	if len(results) != 1 || results[0] {
		t.Fatalf("expected a single false completion, got %v", results)
	}
	if a.Active() || !a.Paused() {
		t.Fatal("expected paused, inactive animator")
	}
	if a.Position() != pos || a.Velocity() != vel {
		t.Fatal("pause must preserve position and velocity")
	}

	notified := false
	a.Subscribe(func(float64) { notified = true })
	if a.Tick(0) || notified {
		t.Fatal("paused animator must not tick")
	}
}

func TestOnSettledFiresOnceOnCompletion(t *testing.T) {
	a := New(60)
	a.Start(10, 20, 0, 1.0, 0.2)
	var results []bool
	a.OnSettled(func(done bool) { results = append(results, done) })
	runUntilSettled(t, a, 600)
	a.Tick(0)
	a.Stop()
	if len(results) != 1 || !results[0] {
		t.Fatalf("expected a single true completion, got %v", results)
	}
}

func TestOnSettledWhileIdle(t *testing.T) {
	a := New(60)
	got := true
	a.OnSettled(func(done bool) { got = done })
	if got {
		t.Fatal("expected immediate false completion while idle")
	}
}

func TestSubscribersRunInOrderAndUnsubscribe(t *testing.T) {
	a := New(60)
	var order []string
	a.Subscribe(func(float64) { order = append(order, "a") })
	remove := a.Subscribe(func(float64) { order = append(order, "b") })
	a.Subscribe(func(float64) { order = append(order, "c") })

	a.Start(0, 10, 0, 1, 0.3)
	a.Tick(0)
	remove()
	a.Tick(0)

	want := []string{"a", "b", "c", "a", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestTickWithCustomInterval(t *testing.T) {
	a := New(60)
	a.Start(0, 50, 0, 1.0, 0.4)
	a.Tick(100 * time.Millisecond)
	big := a.Position()

	b := New(60)
	b.Start(0, 50, 0, 1.0, 0.4)
	b.Tick(0)
	if big <= b.Position() {
		t.Fatalf("longer interval should advance further: %v <= %v", big, b.Position())
	}
}

func TestStopDiscardsVelocity(t *testing.T) {
	a := New(60)
	a.Start(0, 100, 0, 1.0, 0.4)
	a.Tick(0)
	a.Stop()
	if a.Active() || a.Paused() || a.Velocity() != 0 {
		t.Fatal("expected stopped animator with zero velocity")
	}
}

func TestRestartFromFinalNotificationCompletesSettledSession(t *testing.T) {
	a := New(60)
	var first, second []bool
	restarted := false
	a.Subscribe(func(p float64) {
		if p == 20 && !restarted {
			restarted = true
			a.Start(p, 40, 0, 1.0, 0.2)
			a.OnSettled(func(done bool) { second = append(second, done) })
		}
	})

	a.Start(10, 20, 0, 1.0, 0.2)
	a.OnSettled(func(done bool) { first = append(first, done) })
	for i := 0; !restarted; i++ {
		if i > 600 {
			t.Fatal("first session never settled")
		}
		a.Tick(0)
	}

	if len(first) != 1 || !first[0] {
		t.Fatalf("expected settled session to complete with true, got %v", first)
	}
	if !a.Active() {
		t.Fatal("expected the restarted session to be running")
	}
	if len(second) != 0 {
		t.Fatalf("new session completed early: %v", second)
	}

	runUntilSettled(t, a, 600)
	if len(first) != 1 || len(second) != 1 || !second[0] {
		t.Fatalf("unexpected completions: first=%v second=%v", first, second)
	}
}

func TestSetFPSChangesFrameInterval(t *testing.T) {
	a := New(60)
	a.Start(0, 100, 0, 1.0, 0.4)
	a.SetFPS(10)
	if got := a.FrameInterval(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms frames, got %v", got)
	}

	b := New(10)
	b.Start(0, 100, 0, 1.0, 0.4)
	a.Tick(0)
	b.Tick(0)
	if math.Abs(a.Position()-b.Position()) > 1e-9 {
		t.Fatalf("expected SetFPS to match a fresh 10 fps animator: %v vs %v", a.Position(), b.Position())
	}
	runUntilSettled(t, a, 600)
}
