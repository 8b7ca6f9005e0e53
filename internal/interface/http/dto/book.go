package dto

// ListBooksQuery 目录列表查询参数
// 所有参数都是可选的,非法值在应用层静默回退为默认值,因此这里不做binding校验;
// only_available需要区分"缺省"与"存在但不为on",由Handler通过GetQuery读取
type ListBooksQuery struct {
	Search     string `form:"search" example:"дюна"`
	Genre      string `form:"genre" example:"SCIFI"`
	PriceRange string `form:"price_range" example:"300-700"`
	SortBy     string `form:"sort_by" example:"-rating"`
	Page       string `form:"page" example:"1"`
}

// SearchQuery 搜索参数
type SearchQuery struct {
	Q    string `form:"q" example:"Толстой"`
	Page string `form:"page" example:"1"`
}

// BookRequest 新增/编辑图书请求
// 价格单位为卢布(两位小数),评分0.0-10.0会四舍五入到一位小数
type BookRequest struct {
	Title            string   `json:"title" binding:"required,max=255" example:"Мастер и Маргарита"`
	Author           string   `json:"author" binding:"required,max=255" example:"Михаил Булгаков"`
	Genre            string   `json:"genre" binding:"omitempty,max=50" example:"CLASSIC"`
	ShortDescription string   `json:"short_description" example:"Роман о дьяволе в Москве"`
	ReadingReason    string   `json:"reading_reason" example:"Классика XX века"`
	Rating           *float64 `json:"rating" binding:"omitempty,min=0,max=10" example:"9.5"`
	Price            float64  `json:"price" binding:"min=0,max=99999999.99" example:"499.90"`
	ISBN             string   `json:"isbn" binding:"omitempty,max=13" example:"9785170000001"`
	PublicationYear  *int     `json:"publication_year" binding:"omitempty,min=1800,max=2100" example:"1967"`
	PageCount        *int     `json:"page_count" binding:"omitempty,min=1" example:"480"`
	IsAvailable      *bool    `json:"is_available" example:"true"`
}

// AvailabilityRequest 批量上架/下架请求
type AvailabilityRequest struct {
	IDs       []uint `json:"ids" binding:"required,min=1" example:"1,2,3"`
	Available *bool  `json:"available" binding:"required" example:"false"`
}

// ReviewRequest 提交评论请求
type ReviewRequest struct {
	ReviewerName string `json:"reviewer_name" binding:"required,max=100" example:"Анна"`
	Email        string `json:"email" binding:"omitempty,email" example:"anna@example.com"`
	Rating       int    `json:"rating" binding:"required,min=1,max=10" example:"9"`
	Text         string `json:"text" binding:"required" example:"Отличная книга"`
}

// ModerateReviewRequest 评论审核请求
type ModerateReviewRequest struct {
	Approved *bool `json:"approved" binding:"required" example:"false"`
}
