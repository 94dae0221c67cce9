package playback

import (
	"sync"
	"testing"
	"time"
)

// fakeTimer / fakeScheduler 手动触发的定时器，测试推进与取消竞态用
type fakeTimer struct {
	mu      sync.Mutex
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

// fire 触发回调，无论是否已被 Stop（模拟“回调已在触发路径上”的竞态）
func (t *fakeTimer) fire() { t.fn() }

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

func newTestController(sched *fakeScheduler) (*Controller, chan uint64) {
	viewed := make(chan uint64, 16)
	c := NewController(Options{
		Scheduler:  sched,
		MarkViewed: func(id uint64) { viewed <- id },
	})
	return c, viewed
}

func waitViewed(t *testing.T, ch chan uint64) uint64 {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("mark-viewed not called")
		return 0
	}
}

func items3() []Item {
	return []Item{
		{ID: 10, DurationMs: 5000},
		{ID: 9, DurationMs: 8000},
		{ID: 8, DurationMs: 5000},
	}
}

func TestController_OpenEmpty(t *testing.T) {
	c, _ := newTestController(&fakeScheduler{})
	if c.Open(nil, 0) {
		t.Fatal("expected Open to fail on empty list")
	}
	if c.State() != StateClosed {
		t.Fatal("expected closed state")
	}
}

func TestController_Open_StartWraps(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	if !c.Open(items3(), 4) {
		t.Fatal("Open failed")
	}
	if _, idx, ok := c.Current(); !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d (ok=%v)", idx, ok)
	}

	c.Close()
	c.Open(items3(), -1)
	if _, idx, ok := c.Current(); !ok || idx != 2 {
		t.Fatalf("expected index 2 for start -1, got %d (ok=%v)", idx, ok)
	}
}

func TestController_MarksViewedOnEnter(t *testing.T) {
	sched := &fakeScheduler{}
	c, viewed := newTestController(sched)

	c.Open(items3(), 0)
	if id := waitViewed(t, viewed); id != 10 {
		t.Fatalf("expected viewed 10, got %d", id)
	}
	c.Next()
	if id := waitViewed(t, viewed); id != 9 {
		t.Fatalf("expected viewed 9, got %d", id)
	}
}

func TestController_AutoAdvanceWrapsAround(t *testing.T) {
	sched := &fakeScheduler{}
	c, viewed := newTestController(sched)

	c.Open(items3(), 2)
	waitViewed(t, viewed)

	// 末尾自动推进回到开头
	sched.last().fire()
	if _, idx, _ := c.Current(); idx != 0 {
		t.Fatalf("expected wrap to index 0, got %d", idx)
	}
	waitViewed(t, viewed)

	sched.last().fire()
	if _, idx, _ := c.Current(); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestController_SinglePendingTimer(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	c.Open(items3(), 0)
	c.Next()
	c.Next()
	c.Prev()

	if n := sched.pending(); n != 1 {
		t.Fatalf("expected exactly 1 pending timer, got %d", n)
	}
}

func TestController_ManualNavCancelsPending(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	c.Open(items3(), 0)
	first := sched.last()
	c.Next()

	if !first.isStopped() {
		t.Fatal("expected first timer to be cancelled after Next")
	}
	if _, idx, _ := c.Current(); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestController_StaleTimerDropped(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	c.Open(items3(), 0)
	stale := sched.last()
	c.Next()

	// 旧定时器在取消竞态中晚到：世代不匹配，状态不动
	stale.fire()
	if _, idx, _ := c.Current(); idx != 1 {
		t.Fatalf("expected index to stay 1, got %d", idx)
	}
}

func TestController_PrevWrapsToEnd(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	c.Open(items3(), 0)
	c.Prev()
	if _, idx, _ := c.Current(); idx != 2 {
		t.Fatalf("expected wrap to index 2, got %d", idx)
	}
}

func TestController_CloseStopsEverything(t *testing.T) {
	sched := &fakeScheduler{}
	closed := 0
	viewed := make(chan uint64, 16)
	c := NewController(Options{
		Scheduler:  sched,
		MarkViewed: func(id uint64) { viewed <- id },
		OnClose:    func() { closed++ },
	})

	c.Open(items3(), 0)
	waitViewed(t, viewed)
	pending := sched.last()

	c.Close()
	if c.State() != StateClosed {
		t.Fatal("expected closed state")
	}
	if !pending.isStopped() {
		t.Fatal("expected pending timer cancelled on close")
	}
	if closed != 1 {
		t.Fatalf("expected one OnClose call, got %d", closed)
	}

	// 关闭后的操作都是无副作用的空操作
	c.Next()
	c.Prev()
	pending.fire()
	if c.State() != StateClosed {
		t.Fatal("expected controller to stay closed")
	}
	select {
	case id := <-viewed:
		t.Fatalf("unexpected mark-viewed after close: %d", id)
	case <-time.After(50 * time.Millisecond):
	}

	// 重复 Close 不再触发回调
	c.Close()
	if closed != 1 {
		t.Fatalf("expected OnClose once, got %d", closed)
	}
}

func TestController_OnShowSeesEachEntry(t *testing.T) {
	sched := &fakeScheduler{}
	var shown []uint64
	c := NewController(Options{
		Scheduler: sched,
		OnShow:    func(_ int, it Item) { shown = append(shown, it.ID) },
	})

	c.Open(items3(), 0)
	sched.last().fire()
	sched.last().fire()

	if len(shown) != 3 || shown[0] != 10 || shown[1] != 9 || shown[2] != 8 {
		t.Fatalf("expected shown [10 9 8], got %v", shown)
	}
}

func TestController_Remove(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	// 删掉正在展示的 -> 直接关闭
	c.Open(items3(), 1)
	c.Remove(9)
	if c.State() != StateClosed {
		t.Fatal("expected close when current item removed")
	}

	// 删掉当前之前的 -> 下标前移，当前条不变
	c.Open(items3(), 1)
	c.Remove(10)
	it, idx, ok := c.Current()
	if !ok || idx != 0 || it.ID != 9 {
		t.Fatalf("expected still showing 9 at index 0, got %d at %d (ok=%v)", it.ID, idx, ok)
	}

	// 不在队列里的 ID 是空操作
	c.Remove(777)
	if _, idx, _ := c.Current(); idx != 0 {
		t.Fatalf("expected index unchanged, got %d", idx)
	}

	// 仅剩一条时删除 -> 关闭
	c.Close()
	c.Open([]Item{{ID: 42, DurationMs: 5000}}, 0)
	c.Remove(42)
	if c.State() != StateClosed {
		t.Fatal("expected close when queue emptied")
	}
}

func TestController_DurationClamped(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(sched)

	// 非法时长取缺省 5s，超限截到 50s
	c.Open([]Item{{ID: 1, DurationMs: 0}, {ID: 2, DurationMs: 999999}}, 0)
	if d := sched.last().d; d != 5000*time.Millisecond {
		t.Fatalf("expected 5s schedule, got %v", d)
	}
	c.Next()
	if d := sched.last().d; d != 50000*time.Millisecond {
		t.Fatalf("expected 50s schedule, got %v", d)
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		elapsed, total time.Duration
		want           float64
	}{
		{0, 5 * time.Second, 0},
		{-time.Second, 5 * time.Second, 0},
		{time.Second, 5 * time.Second, 0.2},
		{5 * time.Second, 5 * time.Second, 1},
		{9 * time.Second, 5 * time.Second, 1},
		{time.Second, 0, 1},
		{time.Second, -time.Second, 1},
	}
	for _, c := range cases {
		if got := Progress(c.elapsed, c.total); got != c.want {
			t.Fatalf("Progress(%v, %v): expected %v, got %v", c.elapsed, c.total, c.want, got)
		}
	}
}
