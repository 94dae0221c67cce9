package moments_sdk

import (
	"log"
	"net/http"
	"sync"

	"github.com/cydxin/moments-sdk/middleware"
	model "github.com/cydxin/moments-sdk/models"
	"github.com/cydxin/moments-sdk/service"
	"github.com/gin-gonic/gin"
)

type MomentsEngine struct {
	config *Config

	MomentService *service.MomentService
	ReplyService  *service.ReplyService
	UserService   *service.UserService
	FriendService *service.FriendService
	AuthService   *service.AuthService // 鉴权服务
	Reaper        *service.Reaper
	WsServer      *WsServer
}

var (
	Instance *MomentsEngine
	once     sync.Once
)

// NewEngine 创建实例
// 使用选项模式传入配置，Option 回调
func NewEngine(opts ...Option) *MomentsEngine {
	once.Do(func() {
		c := &Config{
			TablePrefix: "mo_", // Default
		}
		for _, opt := range opts {
			opt(c)
		}

		Instance = &MomentsEngine{config: c}

		// 初始化 WS
		Instance.WsServer = NewWsServer()
		go Instance.WsServer.Run()

		// 初始化基础 Service，注入时钟与 WsNotifier 回调
		baseService := &service.Service{
			DB:          c.DB,
			RDB:         c.RDB,
			TablePrefix: c.TablePrefix,
			Now:         c.Clock,
			WsNotifier:  Instance.WsServer.SendToUser,
		}

		// 初始化各个 Service
		Instance.MomentService = service.NewMomentService(baseService)
		Instance.ReplyService = service.NewReplyService(baseService)
		Instance.UserService = service.NewUserService(baseService)
		Instance.FriendService = service.NewFriendService(baseService)
		Instance.AuthService = service.NewAuthService(c.RDB)

		// 迁移表
		if err := Instance.AutoMigrate(); err != nil {
			log.Printf("AutoMigrate failed: %v", err)
		}

		// 到期清扫：唯一的定时销毁机制，读取路径只做过滤不做删除
		Instance.Reaper = service.NewReaper(Instance.MomentService, c.ReaperInterval)
		if !c.DisableReaper {
			Instance.Reaper.Start()
		}
	})

	return Instance
}

func (c *MomentsEngine) AutoMigrate() error {
	db := c.config.DB
	log.Println("AutoMigrate...")
	return db.AutoMigrate(
		&model.User{},
		&model.Friend{},
		&model.Moment{},
		&model.MomentViewer{},
		&model.MomentReply{},
	)
}

// ServeWS 处理 WebSocket 请求，userID 由调用方完成鉴权后传入
func (c *MomentsEngine) ServeWS(w http.ResponseWriter, r *http.Request, userID uint64) {
	c.WsServer.ServeWS(w, r, userID)
}

// GinAuthMiddleware 返回配置好的 Gin 鉴权中间件
// 使用 MomentsEngine 内部的 AuthService 和 Redis 配置
//
// 使用示例:
//
//	engine := moments_sdk.NewEngine(...)
//	r := gin.Default()
//	r.Use(engine.GinAuthMiddleware(nil)) // 使用默认配置
//	// 或自定义配置
//	r.Use(engine.GinAuthMiddleware(&middleware.AuthOptions{
//	    HeaderKey: "X-Token",
//	    QueryKey: "access_token",
//	}))
func (c *MomentsEngine) GinAuthMiddleware(opt *middleware.AuthOptions) gin.HandlerFunc {
	return middleware.GinAuthMiddleware(c.AuthService, opt)
}
