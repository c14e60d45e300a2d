package dto

// RegisterRequest HTTP注册请求
// validator tag说明:
// - required: 必填字段
// - email: 邮箱格式校验
// - min/max: 长度范围校验（密码强度的完整规则在领域层）
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"pass1234"`
	Name     string `json:"name" binding:"required,min=2,max=50" example:"张三"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"pass1234"`
}

// GoogleLoginRequest HTTP Google联合登录请求
// 网关侧已完成Google Token的校验，这里只接收解析后的Profile
type GoogleLoginRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@gmail.com"`
	Name  string `json:"name" binding:"omitempty,max=50" example:"张三"`
}

// RequestResetRequest HTTP请求重置密码（发送OTP）
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
}

// VerifyOtpRequest HTTP校验OTP
type VerifyOtpRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
	Code  string `json:"code" binding:"required,len=6" example:"123456"`
}

// ResetPasswordRequest HTTP重置密码（需先通过OTP校验）
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"user@example.com"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=20" example:"newpass1234"`
}

// ChangePasswordRequest HTTP修改密码（已登录用户）
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"pass1234"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=20" example:"newpass1234"`
}
