// Package moments_sdk 提供 24 小时限时瞬间（Moments）SDK 核心能力
// @title Moments SDK API
// @version 1.0
// @description 限时瞬间 SDK 的 RESTful API 文档，包含瞬间发布/浏览/查看埋点/回复/删除与最小账号、好友模块
// @description
// @description ## 业务状态码说明
// @description | Code | 说明 |
// @description |------|------|
// @description | 0 | 成功 |
// @description | 10001 | 参数错误 |
// @description | 10004 | Token 无效 |
// @description | 10005 | 权限不足 |
// @description | 10006 | 资源不存在或已到期 |
// @description | 99999 | 内部错误 |
// @description
// @description ## HTTP 状态码说明
// @description - **200**: 请求成功
// @description - **201**: 资源创建成功
// @description - **400**: 参数错误
// @description - **401**: 认证失败（未登录/Token 无效）
// @description - **403**: 权限不足
// @description - **404**: 资源不存在或已到期
// @description - **500**: 服务器内部错误
// @description
// @description ## 响应格式
// @description 所有接口统一返回格式：
// @description ```json
// @description {
// @description   "code": 0,
// @description   "msg": "success",
// @description   "data": {}
// @description }
// @description ```
//
// @termsOfService https://github.com/cydxin/moments-sdk
//
// @contact.name API Support
// @contact.url https://github.com/cydxin/moments-sdk/issues
// @contact.email support@example.com
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:6789
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 格式：Bearer <token>
//
// @securityDefinitions.apikey QueryToken
// @in query
// @name token
// @description 用于 WebSocket 等无法传 header 的场景
package moments_sdk
