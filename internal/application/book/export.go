package book

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const (
	// ExportFilename 下载文件名
	ExportFilename = "books_export.csv"
	// ExportContentType 响应类型
	ExportContentType = "text/csv; charset=utf-8"

	exportTimeLayout = "02.01.2006 15:04"
	utf8BOM          = "\ufeff"
)

// exportHeader CSV表头
var exportHeader = []string{
	"ID", "Название", "Автор", "Жанр", "Цена (₽)", "Рейтинг",
	"Год издания", "Страниц", "ISBN", "В наличии", "Дата добавления",
}

// ExportBooksUseCase CSV导出用例(需要登录)
// 导出全部图书(不受列表过滤条件影响),按ID升序
type ExportBooksUseCase struct {
	repo book.Repository
}

// NewExportBooksUseCase 创建导出用例
func NewExportBooksUseCase(repo book.Repository) *ExportBooksUseCase {
	return &ExportBooksUseCase{repo: repo}
}

// Execute 写出带BOM的UTF-8 CSV,返回数据行数;集合为空时只有表头
func (uc *ExportBooksUseCase) Execute(ctx context.Context, w io.Writer) (int, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ExportBooks")
	defer span.End()

	books, err := uc.repo.All(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return 0, err
	}

	// BOM让Excel按UTF-8打开
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, b := range books {
		if err := cw.Write(exportRow(b)); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	metrics.IncCounter(metrics.CSVExportsTotal)
	metrics.ObserveHistogram(metrics.CSVExportRows, float64(len(books)))
	zerolog.Ctx(ctx).Info().Int("rows", len(books)).Msg("books exported")

	return len(books), nil
}

// exportRow 一本书对应一行,缺失的可选值输出空串
func exportRow(b *book.Book) []string {
	rating := ""
	if b.Rating != nil {
		rating = strconv.FormatFloat(*b.Rating, 'f', 1, 64)
	}
	year := ""
	if b.PublicationYear != nil {
		year = strconv.Itoa(*b.PublicationYear)
	}
	pages := ""
	if b.PageCount != nil {
		pages = strconv.Itoa(*b.PageCount)
	}
	available := "Нет"
	if b.IsAvailable {
		available = "Да"
	}

	return []string{
		strconv.FormatUint(uint64(b.ID), 10),
		b.Title,
		b.Author,
		b.Genre.Label(),
		book.FormatRubles(b.Price),
		rating,
		year,
		pages,
		b.ISBN,
		available,
		b.CreatedAt.Format(exportTimeLayout),
	}
}
