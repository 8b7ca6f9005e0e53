package mysql

import (
	"time"

	"gorm.io/gorm"
)

// UserModel GORM用户模型
// 说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain/user/entity.go是领域实体,不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"戈比"
// 2. 可选字段使用指针,数据库中为NULL
// 3. is_available不设置default标签:GORM会把零值false替换成默认值
// 4. 图书没有软删除
type BookModel struct {
	ID               uint      `gorm:"primaryKey"`
	Title            string    `gorm:"size:255;not null;comment:书名"`
	Author           string    `gorm:"index;size:255;not null;comment:作者"`
	Genre            string    `gorm:"index;size:50;not null;comment:体裁代码"`
	ShortDescription string    `gorm:"type:text;comment:简介"`
	ReadingReason    string    `gorm:"type:text;comment:推荐理由"`
	Rating           *float64  `gorm:"type:decimal(3,1);index;comment:评分0.0-10.0"`
	Price            int64     `gorm:"index;not null;comment:价格(戈比)"`
	ISBN             string    `gorm:"column:isbn;size:13;comment:ISBN"`
	PublicationYear  *int      `gorm:"index;comment:出版年份"`
	PageCount        *int      `gorm:"comment:页数"`
	IsAvailable      bool      `gorm:"index;not null;comment:是否有货"`
	CreatedAt        time.Time `gorm:"index;comment:添加时间"`
	UpdatedAt        time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM评论模型
// BookID只保存引用,删除图书时由应用层在同一事务中删除评论
type ReviewModel struct {
	ID           uint      `gorm:"primaryKey"`
	BookID       uint      `gorm:"index;not null;comment:图书ID"`
	ReviewerName string    `gorm:"size:100;not null;comment:评论人"`
	Email        string    `gorm:"size:254;comment:邮箱"`
	Rating       int       `gorm:"not null;comment:评分1-10"`
	Text         string    `gorm:"type:text;not null;comment:评论内容"`
	IsApproved   bool      `gorm:"index;not null;comment:是否审核通过"`
	CreatedAt    time.Time `gorm:"index;comment:评论时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "book_reviews"
}
