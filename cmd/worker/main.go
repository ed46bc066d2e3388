package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/wapuda/tg-ytfetch/internal/config"
	"github.com/wapuda/tg-ytfetch/internal/jobs"
	"github.com/wapuda/tg-ytfetch/internal/logx"
	"github.com/wapuda/tg-ytfetch/internal/orchestrator"
	"github.com/wapuda/tg-ytfetch/internal/resolver"
	"github.com/wapuda/tg-ytfetch/internal/store"
	"github.com/wapuda/tg-ytfetch/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	c := config.Load()

	logx.Setup(config.Log("worker"))

	if err := c.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("data dir")
	}

	bot, err := telegram.NewBot(c.BotToken, c.TelegramEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth")
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	defer rdb.Close()

	orch := orchestrator.New(telegram.New(bot), resolver.New(c.YtDlpPath, c.CookiesFile), orchestrator.Options{
		Meta:        store.New(rdb, c.MetaTTL),
		ScratchDir:  c.DataDir,
		UploadLimit: c.UploadLimitBytes,
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: c.RedisAddr}, asynq.Config{
		Concurrency: c.Concurrency,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TaskDownload, func(ctx context.Context, t *asynq.Task) error {
		p, err := jobs.ParseTask(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		st, err := orch.Deliver(ctx, p)
		l := logx.FromCtx(logx.WithMedia(logx.WithChat(ctx, p.ChatID, p.UserID), p.Request.MediaID))
		l.Info().
			Str("state", st.String()).AnErr("err", err).Msg("download task done")
		if err != nil {
			// The user has been told; every failure is final.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return nil
	})

	log.Info().Int("concurrency", c.Concurrency).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}
