package moments_sdk

import (
	"net/http"

	"github.com/cydxin/moments-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 好友相关接口（最小关系能力） --------------------

type addFriendReq struct {
	FriendID uint64 `json:"friend_id" binding:"required"`
}

// GinHandleAddFriend 添加好友
// @Summary 添加好友
// @Description 直接建边（幂等）；申请/同意流程归外部关系系统
// @Tags 好友
// @Accept json
// @Produce json
// @Param req body addFriendReq true "好友 ID"
// @Success 200 {object} response.Response "成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 404 {object} response.Response "用户不存在"
// @Security BearerAuth
// @Router /friend/add [post]
func (c *MomentsEngine) GinHandleAddFriend(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req addFriendReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	if err := c.FriendService.AddFriend(uid, req.FriendID); err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleListFriendIDs 好友 ID 列表
// @Summary 好友 ID 列表
// @Description 双向去重后的好友 ID 集合，即可见性解析的输入
// @Tags 好友
// @Produce json
// @Success 200 {object} response.Response{data=[]uint64} "好友 ID 列表"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /friend/list [get]
func (c *MomentsEngine) GinHandleListFriendIDs(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	ids, err := c.FriendService.ListFriendIDs(uid)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(ids))
}
