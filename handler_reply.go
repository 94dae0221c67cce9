package moments_sdk

import (
	"net/http"
	"strconv"

	"github.com/cydxin/moments-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 瞬间回复相关接口 --------------------

// GinHandleListMomentReplies 获取瞬间回复
// @Summary 获取瞬间回复
// @Description 最近 50 条，时间倒序；这是展示窗口，不是完整历史
// @Tags 瞬间
// @Accept json
// @Produce json
// @Param id path int true "瞬间 ID"
// @Param limit query int false "条数上限（默认 50）"
// @Success 200 {object} response.Response{data=[]service.ReplyDTO} "回复列表"
// @Failure 500 {object} response.Response "内部错误"
// @Security BearerAuth
// @Router /moments/{id}/replies [get]
func (c *MomentsEngine) GinHandleListMomentReplies(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}

	mid, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || mid == 0 {
		// 未知引用等同无回复
		ctx.JSON(http.StatusOK, response.Success([]any{}))
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	list, err := c.ReplyService.ListRecentReplies(mid, limit)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(list))
}

// CreateReplyReq 回复瞬间请求
type CreateReplyReq struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji"`
}

// GinHandleCreateMomentReply 回复瞬间
// @Summary 回复瞬间
// @Description 文本或表情至少填一个；目标瞬间必须存在且未到期
// @Tags 瞬间
// @Accept json
// @Produce json
// @Param id path int true "瞬间 ID"
// @Param req body CreateReplyReq true "回复内容"
// @Success 201 {object} response.Response{data=service.ReplyDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 404 {object} response.Response "瞬间不存在或已到期"
// @Security BearerAuth
// @Router /moments/{id}/replies [post]
func (c *MomentsEngine) GinHandleCreateMomentReply(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	mid, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || mid == 0 {
		ctx.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "invalid moment id"))
		return
	}

	var req CreateReplyReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dto, err := c.ReplyService.AddReply(mid, uid, req.Text, req.Emoji)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response.Success(dto))
}
