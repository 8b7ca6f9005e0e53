// Package metrics 提供基于Prometheus的指标收集
//
// 指标分两类：
//   - HTTP指标：由middleware.Metrics统一记录（请求数、耗时、处理中请求数）
//   - 业务指标：图书/评论的写操作、CSV导出、详情缓存命中情况
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只使用有限取值（method、route、status、result），避免高基数。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.IncCounter(metrics.BooksCreatedTotal)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 防止重复注册（promauto注册到默认Registry，重复注册会panic）
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、route（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BooksCreatedTotal 新增图书总数
	BooksCreatedTotal prometheus.Counter

	// BooksUpdatedTotal 编辑图书总数
	BooksUpdatedTotal prometheus.Counter

	// BooksDeletedTotal 删除图书总数
	BooksDeletedTotal prometheus.Counter

	// AvailabilityChangesTotal 批量上下架影响的图书数
	// 标签：available（true/false）
	AvailabilityChangesTotal *prometheus.CounterVec

	// ReviewsCreatedTotal 提交评论总数
	ReviewsCreatedTotal prometheus.Counter

	// CSVExportsTotal CSV导出次数
	CSVExportsTotal prometheus.Counter

	// CSVExportRows CSV导出行数分布
	CSVExportRows prometheus.Histogram

	// BookCacheEventsTotal 图书详情缓存事件
	// 标签：result（hit/miss/error）
	BookCacheEventsTotal *prometheus.CounterVec

	// LoginAttemptsTotal 管理员登录次数
	// 标签：result（success/failure/limited）
	LoginAttemptsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有指标，可重复调用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BooksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_books_created_total",
		Help: "新增图书总数",
	})

	BooksUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_books_updated_total",
		Help: "编辑图书总数",
	})

	BooksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_books_deleted_total",
		Help: "删除图书总数",
	})

	AvailabilityChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_availability_changes_total",
			Help: "批量上下架影响的图书数",
		},
		[]string{"available"},
	)

	ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_reviews_created_total",
		Help: "提交评论总数",
	})

	CSVExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_csv_exports_total",
		Help: "CSV导出次数",
	})

	CSVExportRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_csv_export_rows",
		Help:    "CSV导出行数",
		Buckets: []float64{10, 100, 1000, 10000, 100000},
	})

	BookCacheEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_book_cache_events_total",
			Help: "图书详情缓存事件",
		},
		[]string{"result"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_login_attempts_total",
			Help: "管理员登录次数",
		},
		[]string{"result"},
	)
}

// IncCounter 递增Counter；指标未初始化时忽略（单元测试中常见）
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter 增加Counter
func AddCounter(counter prometheus.Counter, value float64) {
	if counter == nil {
		return
	}
	counter.Add(value)
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// AddCounterVec 增加带标签的Counter
func AddCounterVec(counter *prometheus.CounterVec, labels map[string]string, value float64) {
	if counter == nil {
		return
	}
	counter.With(labels).Add(value)
}

func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
