package dto

// RegisterRequest 注册请求
// 说明:HTTP层的DTO,包含参数验证tag;密码强度由领域服务校验
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	Nickname string `json:"nickname" binding:"omitempty,min=2,max=50" example:"admin"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ProfileResponse 当前登录用户
type ProfileResponse struct {
	UserID uint   `json:"user_id" example:"1"`
	Email  string `json:"email" example:"admin@example.com"`
}
