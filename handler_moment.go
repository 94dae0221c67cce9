package moments_sdk

import (
	"net/http"
	"strconv"

	"github.com/cydxin/moments-sdk/response"
	"github.com/cydxin/moments-sdk/service"
	"github.com/gin-gonic/gin"
)

// -------------------- 瞬间（Moment）相关接口 --------------------

// GinHandleListMoments 可见瞬间列表
// @Summary 可见瞬间列表
// @Description 获取自己与好友发布的未到期瞬间（按时间倒序，含查看者 ID 集合）
// @Tags 瞬间
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=[]service.MomentDTO} "瞬间列表"
// @Failure 401 {object} response.Response "未登录"
// @Failure 500 {object} response.Response "内部错误"
// @Security BearerAuth
// @Router /moments [get]
func (c *MomentsEngine) GinHandleListMoments(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	list, err := c.MomentService.ListVisibleMoments(uid)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(list))
}

// GinHandleCreateMoment 发布瞬间
// @Summary 发布瞬间
// @Description 媒体引用 + 类型(image/video)，24 小时后自动到期
// @Tags 瞬间
// @Accept json
// @Produce json
// @Param req body service.CreateMomentReq true "瞬间内容（mediaRef, mediaKind, durationMs 可选）"
// @Success 201 {object} response.Response{data=service.MomentDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /moments [post]
func (c *MomentsEngine) GinHandleCreateMoment(ctx *gin.Context) {
	var req service.CreateMomentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	dto, err := c.MomentService.CreateMoment(uid, req)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response.Success(dto))
}

// GinHandleMarkMomentViewed 记录查看
// @Summary 记录查看
// @Description 幂等埋点：重复上报、瞬间已到期/不存在都按成功处理，绝不返回 404
// @Tags 瞬间
// @Accept json
// @Produce json
// @Param id path int true "瞬间 ID"
// @Success 200 {object} response.Response "成功"
// @Failure 500 {object} response.Response "内部错误"
// @Security BearerAuth
// @Router /moments/{id}/view [post]
func (c *MomentsEngine) GinHandleMarkMomentViewed(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	// 埋点尽力而为：连 ID 都解析不了就当无事发生
	mid, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || mid == 0 {
		ctx.JSON(http.StatusOK, response.Success(gin.H{"ok": true}))
		return
	}

	if err := c.MomentService.MarkViewed(mid, uid); err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(gin.H{"ok": true}))
}

// GinHandleDeleteMoment 删除瞬间
// @Summary 删除瞬间
// @Description 仅发布者或管理员可删；回复与查看记录同事务级联删除
// @Tags 瞬间
// @Accept json
// @Produce json
// @Param id path int true "瞬间 ID"
// @Success 200 {object} response.Response "成功"
// @Failure 403 {object} response.Response "无权操作"
// @Failure 404 {object} response.Response "瞬间不存在"
// @Security BearerAuth
// @Router /moments/{id} [delete]
func (c *MomentsEngine) GinHandleDeleteMoment(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	mid, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || mid == 0 {
		ctx.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "invalid moment id"))
		return
	}

	if err := c.MomentService.DeleteMoment(mid, uid, c.UserService.IsPrivileged(uid)); err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(gin.H{"ok": true}))
}
