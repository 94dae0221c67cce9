package moments_sdk

/* Handlers are split into:
- handler_moment.go
- handler_reply.go
- handler_user.go
- handler_friend.go
*/

import (
	"errors"
	"log"
	"net/http"

	"github.com/cydxin/moments-sdk/middleware"
	"github.com/cydxin/moments-sdk/response"
	"github.com/cydxin/moments-sdk/service"
	"github.com/gin-gonic/gin"
)

// currentUserID 从 gin context 取鉴权中间件写入的用户 ID
func currentUserID(ctx *gin.Context) (uint64, bool) {
	uid, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return 0, false
	}
	id, ok := uid.(uint64)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id invalid"))
		return 0, false
	}
	return id, true
}

// respondErr 业务错误 -> HTTP 状态码 + 业务码。
// 内部错误只记日志，不把细节暴露给调用方。
func respondErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, response.Error(response.CodePermissionDeny, err.Error()))
	default:
		log.Printf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		ctx.JSON(http.StatusInternalServerError, response.Error(response.CodeInternalError, "internal error"))
	}
}
