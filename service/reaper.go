package service

import (
	"log"
	"sync"
	"time"
)

const (
	// DefaultReaperInterval 默认清扫周期
	DefaultReaperInterval = time.Minute

	// reaperBatchSize 单次清扫的最大条数，避免长事务
	reaperBatchSize = 500
)

// Reaper 周期清扫已到期的瞬间，连带回复与查看记录一起删。
// 不依赖存储引擎的 TTL 能力：时间判断走注入时钟，清扫是显式的
// 应用级事务，和显式删除共用同一条级联路径。
//
// 读取路径独立按 expires_at 过滤，所以清扫延迟只影响磁盘占用，
// 不影响可见性（到期即不可见，最终被清除）。
type Reaper struct {
	svc      *MomentService
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewReaper(svc *MomentService, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}
	return &Reaper{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动后台清扫循环
func (r *Reaper) Start() {
	go r.run()
}

// Stop 停止清扫循环，等当前一轮结束后返回
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Reaper) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := r.Sweep(); err != nil {
				log.Printf("moment reaper sweep: %v", err)
			} else if n > 0 {
				log.Printf("moment reaper: purged %d expired moments", n)
			}
		case <-r.stop:
			return
		}
	}
}

// Sweep 清扫到无可清扫为止（按批推进），返回清除的瞬间总数
func (r *Reaper) Sweep() (int, error) {
	total := 0
	for {
		n, err := r.SweepOnce()
		total += n
		if err != nil {
			return total, err
		}
		if n < reaperBatchSize {
			return total, nil
		}
	}
}

// SweepOnce 清扫一批已到期瞬间。
// 先按 expires_at 索引取一批 ID，再走与显式删除相同的级联事务。
func (r *Reaper) SweepOnce() (int, error) {
	ids, err := r.svc.moments.ExpiredIDs(r.svc.now(), reaperBatchSize)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.svc.deleteCascade(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
