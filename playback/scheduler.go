package playback

import "time"

// Scheduler 协作式定时抽象。控制器同一时刻最多持有一个待触发的
// 推进回调，进入新状态前必须先取消旧的；测试用假实现手动触发。
type Scheduler interface {
	// AfterFunc 在 d 之后调用 fn，返回可取消的句柄
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer 一次性可取消定时句柄
type Timer interface {
	// Stop 取消定时；回调尚未触发时返回 true
	Stop() bool
}

// RealScheduler 基于 time.AfterFunc 的默认实现
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
