// Package playback 客户端侧的瞬间播放状态机。
//
// 给定服务端按时间倒序返回的瞬间列表，按序自动推进：
// 进入一条即上报查看，按钳制后的时长排程下一次推进，
// 手动前后切换在两端环绕。所有协作方（查看上报、排程器、渲染回调）
// 都按控制器实例注入，不依赖任何包级单例。
package playback

import (
	"sync"
	"time"

	"github.com/cydxin/moments-sdk/service"
)

// Item 播放队列里的一条瞬间
type Item struct {
	ID         uint64
	DurationMs int64
}

// State 控制器状态
type State uint8

const (
	StateClosed  State = iota // 关闭，无副作用
	StateShowing              // 正在展示某个下标
)

// Options 控制器依赖
type Options struct {
	// Scheduler 推进定时器来源，缺省用 time.AfterFunc
	Scheduler Scheduler

	// MarkViewed 进入一条瞬间时上报查看。控制器在独立 goroutine
	// 里调用：上报的完成与失败都不会阻塞或推迟推进定时器，
	// 重复上报由服务端幂等吸收。
	MarkViewed func(momentID uint64)

	// OnShow 进入新下标时的渲染回调（可选）。在控制器锁内同步调用，
	// 回调里不要再调用控制器方法。
	OnShow func(index int, item Item)

	// OnClose 进入关闭态时的回调（可选），约束同 OnShow
	OnClose func()
}

// Controller 单线程协作式播放控制器。
// 不变式：任一时刻至多一个待触发的推进定时器；进入新下标前
// 必定先取消旧定时器，旧定时器即便已在触发路径上，也会被
// 世代计数拦下，不会把状态推进到错误的下标。
type Controller struct {
	mu    sync.Mutex
	sched Scheduler

	markViewed func(momentID uint64)
	onShow     func(index int, item Item)
	onClose    func()

	items []Item
	index int
	state State

	gen   uint64 // 每次状态变更自增，用于拦截过期定时器
	timer Timer
}

func NewController(opts Options) *Controller {
	sched := opts.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Controller{
		sched:      sched,
		markViewed: opts.MarkViewed,
		onShow:     opts.OnShow,
		onClose:    opts.OnClose,
	}
}

// Open 用一组瞬间打开播放器并定位到 start。
// 列表为空则保持关闭态返回 false；start 越界时环绕修正。
func (c *Controller) Open(items []Item, start int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(items) == 0 {
		c.closeLocked()
		return false
	}
	c.items = items
	start %= len(items)
	if start < 0 {
		start += len(items)
	}
	c.enterLocked(start)
	return true
}

// Next 手动切到下一条（末尾环绕到开头）
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing {
		return
	}
	c.enterLocked((c.index + 1) % len(c.items))
}

// Prev 手动切到上一条（开头环绕到末尾）
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing {
		return
	}
	c.enterLocked((c.index - 1 + len(c.items)) % len(c.items))
}

// Close 关闭播放器。取消待触发的推进，此后不再有任何定时或上报副作用。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Remove 响应某条瞬间被删除：正在展示的被删则直接关闭，
// 否则从队列摘除并修正下标；队列被清空同样关闭。
func (c *Controller) Remove(momentID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing {
		return
	}

	pos := -1
	for i, it := range c.items {
		if it.ID == momentID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return
	}
	if pos == c.index || len(c.items) == 1 {
		c.closeLocked()
		return
	}

	c.items = append(c.items[:pos:pos], c.items[pos+1:]...)
	if pos < c.index {
		c.index--
	}
}

// Current 当前展示的瞬间及其下标
func (c *Controller) Current() (Item, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing {
		return Item{}, 0, false
	}
	return c.items[c.index], c.index, true
}

// State 当前状态
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// enterLocked 进入下标 i：取消旧定时器、上报查看、排程唯一的下一次推进。
// 必须持锁调用。
func (c *Controller) enterLocked(i int) {
	c.cancelLocked()
	c.gen++
	gen := c.gen
	c.index = i
	c.state = StateShowing

	item := c.items[i]
	if c.markViewed != nil {
		fn := c.markViewed
		go fn(item.ID)
	}
	if c.onShow != nil {
		c.onShow(i, item)
	}

	d := time.Duration(service.ClampDuration(item.DurationMs)) * time.Millisecond
	c.timer = c.sched.AfterFunc(d, func() { c.advance(gen) })
}

// advance 定时推进。世代不匹配说明定时器在取消竞态中晚到了，丢弃。
func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing || gen != c.gen {
		return
	}
	c.enterLocked((c.index + 1) % len(c.items))
}

func (c *Controller) closeLocked() {
	c.cancelLocked()
	c.gen++
	wasShowing := c.state == StateShowing
	c.state = StateClosed
	c.items = nil
	c.index = 0
	if wasShowing && c.onClose != nil {
		c.onClose()
	}
}

func (c *Controller) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
