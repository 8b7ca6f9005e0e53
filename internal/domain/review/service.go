package review

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// Service 评论领域服务
type Service interface {
	// Submit 提交评论:图书必须存在,字段校验通过后保存(默认已审核)
	Submit(ctx context.Context, bookID uint, fields Fields) (*Review, error)

	// Moderate 审核/撤销审核
	Moderate(ctx context.Context, id uint, approved bool) (*Review, error)

	// Remove 删除评论
	Remove(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books book.Repository
}

// NewService 创建评论领域服务
func NewService(repo Repository, books book.Repository) Service {
	return &service{repo: repo, books: books}
}

// Submit 提交评论
func (s *service) Submit(ctx context.Context, bookID uint, fields Fields) (*Review, error) {
	// 1. 图书不存在时返回404,优先于字段校验
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	// 2. 字段校验
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	// 3. 持久化
	r := NewReview(bookID, fields)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Moderate 审核/撤销审核
func (s *service) Moderate(ctx context.Context, id uint, approved bool) (*Review, error) {
	if err := s.repo.SetApproved(ctx, id, approved); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Remove 删除评论
func (s *service) Remove(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
