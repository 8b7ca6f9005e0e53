package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 创建zerolog Logger
// console格式使用人类可读的ConsoleWriter，其余输出JSON
func New(opts Options) zerolog.Logger {
	out := openOutput(opts.Output)
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.EnableCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init 创建Logger并设置为全局Logger（log.Logger与Context默认Logger）
func Init(opts Options) zerolog.Logger {
	l := New(opts)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// ParseLevel 解析日志级别，无法识别时返回info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func openOutput(output string) io.Writer {
	switch output {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stdout
	}
	return f
}
