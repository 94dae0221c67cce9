package service

import (
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Service 基础服务，包含数据库和配置
type Service struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string

	// Now 可注入时钟。到期判断、reaper 清扫、落库时间戳全部走这里，
	// 测试用固定/推进的假时钟即可覆盖 24h 生命周期。
	Now func() time.Time

	// WsNotifier 用于发送 WebSocket 通知的回调函数
	// 避免循环依赖，通过函数注入的方式；为 nil 时静默跳过
	WsNotifier func(userID uint64, message []byte)
}

// Table 获取带前缀的表名
func (s *Service) Table(name string) *gorm.DB {
	return s.DB.Table(name)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) notify(userID uint64, message []byte) {
	if s.WsNotifier != nil {
		s.WsNotifier(userID, message)
	}
}
