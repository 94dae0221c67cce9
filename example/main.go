package main

import (
	"log"
	"time"

	"github.com/cydxin/moments-sdk"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 1. 初始化数据库连接
	dsn := "root:password@tcp(127.0.0.1:3306)/moments_db?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// 2. Redis（Token 鉴权依赖）
	rdb := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
	})

	// 3. 初始化 Moments Engine（单例模式，全局只需调用一次）
	engine := moments_sdk.NewEngine(
		moments_sdk.WithDB(db),
		moments_sdk.WithRDB(rdb),
		moments_sdk.WithTablePrefix("mo_"),            // 自定义表前缀
		moments_sdk.WithReaperInterval(1*time.Minute), // 到期清扫周期
	)

	// 4. 创建 Gin 路由
	r := gin.Default()

	// 设置 CORS（如果需要）
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 注册 Swagger UI
	moments_sdk.RegisterSwagger(r, "/swagger/*any")

	// 5. WebSocket 连接路由（feed 事件推送）
	// 客户端连接：ws://localhost:6789/ws?token=xxx
	r.GET("/ws", func(c *gin.Context) {
		userID, _, err := engine.AuthService.AuthenticateRequest(c.Request.Context(), c.Request)
		if err != nil {
			c.JSON(401, gin.H{"error": "token 无效"})
			return
		}
		engine.ServeWS(c.Writer, c.Request, userID)
	})

	// 6. API 路由组
	api := r.Group("/api/v1")

	// 用户模块（注册/登录不走鉴权）
	userAPI := api.Group("/user")
	{
		userAPI.POST("/register", engine.GinHandleUserRegister)
		userAPI.POST("/login", engine.GinHandleUserLogin)
	}

	// 以下接口需要登录
	authed := api.Group("")
	authed.Use(engine.GinAuthMiddleware(nil))
	{
		authed.GET("/user/me", engine.GinHandleGetMe)

		// 好友模块
		authed.POST("/friend/add", engine.GinHandleAddFriend)
		authed.GET("/friend/list", engine.GinHandleListFriendIDs)

		// 瞬间模块
		authed.GET("/moments", engine.GinHandleListMoments)
		authed.POST("/moments", engine.GinHandleCreateMoment)
		authed.POST("/moments/:id/view", engine.GinHandleMarkMomentViewed)
		authed.DELETE("/moments/:id", engine.GinHandleDeleteMoment)
		authed.GET("/moments/:id/replies", engine.GinHandleListMomentReplies)
		authed.POST("/moments/:id/replies", engine.GinHandleCreateMomentReply)
	}

	log.Println("服务启动: http://localhost:6789")
	log.Println("Swagger: http://localhost:6789/swagger/index.html")
	if err := r.Run(":6789"); err != nil {
		log.Fatal("服务启动失败:", err)
	}
}
