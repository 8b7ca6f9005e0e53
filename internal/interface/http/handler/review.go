package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookcatalog/internal/application/review"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	createUseCase   *appreview.CreateReviewUseCase
	moderateUseCase *appreview.ModerateReviewUseCase
	deleteUseCase   *appreview.DeleteReviewUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(
	createUseCase *appreview.CreateReviewUseCase,
	moderateUseCase *appreview.ModerateReviewUseCase,
	deleteUseCase *appreview.DeleteReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createUseCase:   createUseCase,
		moderateUseCase: moderateUseCase,
		deleteUseCase:   deleteUseCase,
	}
}

// Create 提交评论
// @Summary      提交评论
// @Description  读者为图书提交评论,评分1-10;默认直接通过审核
// @Tags         评论
// @Accept       json
// @Produce      json
// @Param        id      path int               true "图书ID"
// @Param        request body dto.ReviewRequest true "评论内容"
// @Success      201 {object} response.Response{data=appreview.ReviewResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      400 {object} response.Response "参数校验失败"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, err := parseID(c, book.ErrBookNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ReviewRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:       bookID,
		ReviewerName: req.ReviewerName,
		Email:        req.Email,
		Rating:       req.Rating,
		Text:         req.Text,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Moderate 审核评论
// @Summary      审核评论
// @Description  隐藏(approved=false)或重新展示评论
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "评论ID"
// @Param        request body dto.ModerateReviewRequest true "审核状态"
// @Success      200 {object} response.Response{data=appreview.ReviewResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/v1/reviews/{id}/approval [patch]
func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, err := parseID(c, review.ErrReviewNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ModerateReviewRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.moderateUseCase.Execute(c.Request.Context(), id, *req.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除评论
// @Summary      删除评论
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int true "评论ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := parseID(c, review.ErrReviewNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
