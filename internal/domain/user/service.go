package user

import (
	"context"
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// DefaultBcryptCost 推荐值,平衡安全与性能(cost每+1耗时翻倍)
const DefaultBcryptCost = 12

// Service 用户领域服务
// Service依赖Repository接口,不处理HTTP请求,只处理业务逻辑
type Service interface {
	// Register 注册管理员
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	// Login 校验邮箱与密码
	Login(ctx context.Context, email, password string) (*User, error)

	// GetByID 查询用户
	GetByID(ctx context.Context, id uint) (*User, error)
}

// Option 服务配置项
type Option func(*service)

// WithBcryptCost 指定bcrypt cost(测试中使用bcrypt.MinCost加速)
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.cost = cost
	}
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 注册管理员
// 业务规则:
// 1. 邮箱格式校验
// 2. 密码强度校验(8-20位,包含字母和数字)
// 3. 邮箱唯一性由数据库UNIQUE索引保证,Repository转换为ErrEmailDuplicate
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	fields := map[string]string{}
	if !isValidEmail(email) {
		fields["email"] = "邮箱格式不正确"
	}
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		fields["nickname"] = "昵称长度应为2-50个字符"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), nickname)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 校验邮箱与密码
// 邮箱不存在与密码错误返回同一个错误,避免探测已注册邮箱
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

// GetByID 查询用户
func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

var validate = validator.New()

// isValidEmail 邮箱格式校验
func isValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// validatePasswordStrength 密码强度校验:8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}
	return nil
}
