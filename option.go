package moments_sdk

import (
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ServiceConfig struct {
	Debug bool
}

type Config struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string
	Service     ServiceConfig

	// ReaperInterval 到期清扫周期，<=0 时取默认值（1 分钟）
	ReaperInterval time.Duration

	// Clock 可注入时钟（到期判断、清扫、落库时间戳），nil 时用 time.Now
	Clock func() time.Time

	// DisableReaper 不启动后台清扫（嵌入方自己调度时使用）
	DisableReaper bool
}

type Option func(*Config)

func WithDB(db *gorm.DB) Option {
	return func(c *Config) {
		c.DB = db
	}
}

func WithRDB(rdb *redis.Client) Option {
	return func(c *Config) {
		c.RDB = rdb
	}
}

func WithTablePrefix(prefix string) Option {
	return func(c *Config) {
		c.TablePrefix = prefix
	}
}

func WithServiceDebug(debug bool) Option {
	return func(c *Config) {
		c.Service.Debug = debug
	}
}

// WithReaperInterval 配置到期清扫周期。
func WithReaperInterval(d time.Duration) Option {
	return func(c *Config) {
		c.ReaperInterval = d
	}
}

// WithClock 注入时钟，测试/回放场景使用。
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Clock = now
	}
}

// WithoutReaper 不启动内置的后台清扫。
func WithoutReaper() Option {
	return func(c *Config) {
		c.DisableReaper = true
	}
}
