package moments_sdk

import (
	"net/http"

	"github.com/cydxin/moments-sdk/response"
	"github.com/cydxin/moments-sdk/service"
	"github.com/gin-gonic/gin"
)

// -------------------- 用户相关接口（最小账号能力） --------------------

// GinHandleUserRegister 注册
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.RegisterReq true "注册信息"
// @Success 201 {object} response.Response{data=service.UserDTO} "注册成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /user/register [post]
func (c *MomentsEngine) GinHandleUserRegister(ctx *gin.Context) {
	var req service.RegisterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dto, err := c.UserService.Register(req)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response.Success(dto))
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GinHandleUserLogin 登录
// @Summary 登录
// @Description 校验密码并签发 token（Redis 存储，默认 7 天）
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body loginReq true "登录信息"
// @Success 200 {object} response.Response "token 与用户信息"
// @Failure 400 {object} response.Response "用户名或密码错误"
// @Router /user/login [post]
func (c *MomentsEngine) GinHandleUserLogin(ctx *gin.Context) {
	var req loginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	token, user, err := c.UserService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(gin.H{"token": token, "user": user}))
}

// GinHandleGetMe 当前用户信息
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=service.UserDTO} "用户信息"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /user/me [get]
func (c *MomentsEngine) GinHandleGetMe(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}

	dto, err := c.UserService.GetUser(uid)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(dto))
}
