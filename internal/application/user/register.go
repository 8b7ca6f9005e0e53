package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
)

// RegisterUseCase 管理员注册用例
// 注册只创建账号,不自动登录;昵称为空时使用邮箱@前的部分
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应(不返回密码哈希)
type RegisterResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname, _, _ = strings.Cut(user.NormalizeEmail(req.Email), "@")
	}

	u, err := uc.userService.Register(ctx, req.Email, req.Password, nickname)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Uint("user_id", u.ID).Str("email", u.Email).Msg("user registered")

	return &RegisterResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
