// Package logx sets up the zerolog global logger for the bot, the download
// worker and localtest. Log lines about an interaction carry chat_id, uid and
// media_id taken from the context, and yt-dlp stderr is relayed through
// LineWriter so a failed download can quote its last lines.
package logx

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is filled by config.Log from LOG_* variables.
type Config struct {
	Service        string // "bot" or "worker"
	Level          string // debug|info|warn|error
	Format         string // json|console
	FilePath       string // e.g. /var/log/ytfetch/bot.log ("" = disabled)
	FileMaxSizeMB  int    // rotate at ~MB (default 50)
	FileMaxBackups int    // keep N old logs (default 3)
	FileMaxAgeDays int    // keep #days (default 7)
	FileCompress   bool   // gzip old logs (default true)
	SampleEveryN   int    // >0 enables BasicSampler (e.g., 10 = keep 1/10 logs)
}

type ctxKey string

const (
	CtxKeyChatID  ctxKey = "chat_id"
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyMediaID ctxKey = "media_id"
)

// Setup configures zerolog global `log` and returns the logger instance.
func Setup(c Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	if c.Format == "console" {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		writers = append(writers, os.Stdout)
	}
	if c.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   c.FilePath,
			MaxSize:    c.FileMaxSizeMB,
			MaxBackups: c.FileMaxBackups,
			MaxAge:     c.FileMaxAgeDays,
			Compress:   c.FileCompress,
		})
	}
	multi := io.MultiWriter(writers...)

	logger := zerolog.New(multi).Level(lvl).With().
		Timestamp().
		Str("svc", c.Service).
		Logger()

	if c.SampleEveryN > 0 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(c.SampleEveryN)})
	}

	log.Logger = logger
	return logger
}

// WithChat stores chat and user ids for FromCtx.
func WithChat(ctx context.Context, chatID, userID int64) context.Context {
	ctx = context.WithValue(ctx, CtxKeyChatID, chatID)
	if userID != 0 {
		ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	}
	return ctx
}

// WithMedia stores the media id for FromCtx.
func WithMedia(ctx context.Context, mediaID string) context.Context {
	return context.WithValue(ctx, CtxKeyMediaID, mediaID)
}

// FromCtx attaches standard fields (if present) to the global logger.
func FromCtx(ctx context.Context) zerolog.Logger {
	l := log.Logger
	if ctx == nil {
		return l
	}
	w := l.With()
	if v, ok := ctx.Value(CtxKeyChatID).(int64); ok {
		w = w.Int64("chat_id", v)
	}
	if v, ok := ctx.Value(CtxKeyUserID).(int64); ok {
		w = w.Int64("uid", v)
	}
	if v, ok := ctx.Value(CtxKeyMediaID).(string); ok {
		w = w.Str("media_id", v)
	}
	return w.Logger()
}
