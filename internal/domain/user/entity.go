package user

import (
	"strings"
	"time"
)

// User 管理员账号(聚合根)
// 目录的写操作(新增/编辑/删除图书、导出CSV、评论审核)只对已登录的管理员开放
// 密码以bcrypt哈希存储,实体不提供任何读取明文的方法
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新账号(工厂方法)
// hashedPassword必须是bcrypt加密后的密码;邮箱统一转小写
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		Nickname:  strings.TrimSpace(nickname),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = strings.TrimSpace(nickname)
	u.UpdatedAt = time.Now()
}

// NormalizeEmail 邮箱比较前统一格式
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
