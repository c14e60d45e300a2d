package handler

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/xiebiao/bookshop/internal/application/auth"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// UserHandler 用户HTTP处理器
// 职责：参数绑定、调用应用层用例、构建HTTP响应
// 所有业务规则都在领域层/应用层，Handler保持薄
type UserHandler struct {
	registerUseCase       *appauth.RegisterUseCase
	loginUseCase          *appauth.LoginUseCase
	logoutUseCase         *appauth.LogoutUseCase
	googleLoginUseCase    *appauth.GoogleLoginUseCase
	passwordResetUseCase  *appauth.PasswordResetUseCase
	changePasswordUseCase *appauth.ChangePasswordUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appauth.RegisterUseCase,
	loginUseCase *appauth.LoginUseCase,
	logoutUseCase *appauth.LogoutUseCase,
	googleLoginUseCase *appauth.GoogleLoginUseCase,
	passwordResetUseCase *appauth.PasswordResetUseCase,
	changePasswordUseCase *appauth.ChangePasswordUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase:       registerUseCase,
		loginUseCase:          loginUseCase,
		logoutUseCase:         logoutUseCase,
		googleLoginUseCase:    googleLoginUseCase,
		passwordResetUseCase:  passwordResetUseCase,
		changePasswordUseCase: changePasswordUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  使用邮箱注册新账号，同时创建零余额钱包
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response "注册成功"
// @Failure      400 {object} response.Response "参数错误/密码强度不足"
// @Failure      409 {object} response.Response "邮箱已被注册"
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appauth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  邮箱+密码登录，返回Access Token和Refresh Token
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appauth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GoogleLogin Google联合登录
// @Summary      Google联合登录
// @Description  使用Google账号登录，首次登录自动创建联合账号（无密码）并开通钱包
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.GoogleLoginRequest true "Google Profile"
// @Success      200 {object} response.Response "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Router       /auth/google [post]
func (h *UserHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.googleLoginUseCase.Execute(c.Request.Context(), appauth.GoogleLoginRequest{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并将当前Access Token加入黑名单
// @Tags         用户模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), userID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已登出"})
}

// RequestPasswordReset 请求重置密码
// @Summary      请求重置密码
// @Description  向邮箱发送6位验证码，5分钟内有效；5分钟内不重复发送
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.RequestResetRequest true "邮箱"
// @Success      200 {object} response.Response "已发送"
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /auth/password/reset-request [post]
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.passwordResetUseCase.RequestReset(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "验证码已发送"})
}

// VerifyOtp 校验验证码
// @Summary      校验验证码
// @Description  校验邮箱收到的6位验证码，通过后方可重置密码
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.VerifyOtpRequest true "邮箱和验证码"
// @Success      200 {object} response.Response "校验通过"
// @Failure      400 {object} response.Response "验证码无效或已过期"
// @Router       /auth/password/verify-otp [post]
func (h *UserHandler) VerifyOtp(c *gin.Context) {
	var req dto.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.passwordResetUseCase.VerifyOtp(c.Request.Context(), req.Email, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "验证通过"})
}

// ResetPassword 重置密码
// @Summary      重置密码
// @Description  验证码校验通过后设置新密码，成功后清除该邮箱全部验证码
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "邮箱和新密码"
// @Success      200 {object} response.Response "重置成功"
// @Failure      400 {object} response.Response "未通过验证码校验/密码强度不足"
// @Router       /auth/password/reset [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.passwordResetUseCase.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "密码已重置"})
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Description  已登录用户校验当前密码后设置新密码
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "当前密码和新密码"
// @Success      200 {object} response.Response "修改成功"
// @Failure      401 {object} response.Response "当前密码错误"
// @Router       /users/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.changePasswordUseCase.Execute(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "密码已修改"})
}
