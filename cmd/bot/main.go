package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
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

type server struct {
	bot  *tgbotapi.BotAPI
	orch *orchestrator.Orchestrator
}

func main() {
	_ = godotenv.Load()
	c := config.Load()

	logx.Setup(config.Log("bot"))
	log.Info().Msg("bot starting")

	if err := c.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// health endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"ok":true}`)) })
		log.Info().Str("addr", c.HealthAddr).Msg("health endpoint")
		if err := http.ListenAndServe(c.HealthAddr, mux); err != nil {
			log.Error().Err(err).Msg("health endpoint stopped")
		}
	}()

	bot, err := telegram.NewBot(c.BotToken, c.TelegramEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth")
	}
	bot.Debug = false
	log.Info().Str("username", bot.Self.UserName).Msg("bot authorized")

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	defer rdb.Close()

	opts := orchestrator.Options{
		Meta:        store.New(rdb, c.MetaTTL),
		ScratchDir:  c.DataDir,
		UploadLimit: c.UploadLimitBytes,
	}
	if c.DownloadQueue {
		asClient := asynq.NewClient(asynq.RedisClientOpt{Addr: c.RedisAddr})
		defer asClient.Close()
		opts.Dispatcher = jobs.NewQueue(asClient)
		log.Info().Msg("downloads go through the queue")
	}

	s := &server{
		bot:  bot,
		orch: orchestrator.New(telegram.New(bot), resolver.New(c.YtDlpPath, c.CookiesFile), opts),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	serve(ctx, updates, bot.StopReceivingUpdates, s.handle)
	log.Info().Msg("bot stopped")
}

// serve runs handle for each update in its own goroutine until ctx is done or
// updates closes. It returns only after every started handler has returned,
// so cancelled downloads still clean up their scratch dirs and notify users.
func serve(ctx context.Context, updates <-chan tgbotapi.Update, stop func(), handle func(context.Context, tgbotapi.Update)) {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			stop()
			log.Info().Msg("bot stopping, waiting for running interactions")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			// Interactions are independent; a slow download must not block others.
			wg.Add(1)
			go func() {
				defer wg.Done()
				handle(ctx, upd)
			}()
		}
	}
}

func (s *server) handle(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("update_id", upd.UpdateID).Msg("handler panic")
		}
	}()
	switch {
	case upd.Message != nil:
		s.onMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		s.onCallback(ctx, upd.CallbackQuery)
	}
}

// --- Handlers ---

func (s *server) onMessage(ctx context.Context, m *tgbotapi.Message) {
	var userID int64
	if m.From != nil {
		userID = m.From.ID
	}
	ctx = logx.WithChat(ctx, m.Chat.ID, userID)
	l := logx.FromCtx(ctx)
	l.Info().Msg("message received")

	if m.IsCommand() {
		switch m.Command() {
		case "start", "help":
			if err := s.orch.Start(ctx, m.Chat.ID); err != nil {
				l.Warn().Err(err).Msg("send greeting")
			}
		default:
			_, _ = s.bot.Send(tgbotapi.NewMessage(m.Chat.ID, "Unknown command. Send a YouTube link."))
		}
		return
	}
	if m.Text == "" {
		return
	}

	st, err := s.orch.HandleLink(ctx, m.Chat.ID, userID, m.Text)
	l.Info().Str("state", st.String()).AnErr("err", err).Msg("link handled")
}

func (s *server) onCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		_, _ = s.bot.Request(tgbotapi.NewCallback(cq.ID, ""))
		return
	}
	cb := telegram.FromCallback(cq)
	st, err := s.orch.HandleSelection(ctx, cb)
	l := logx.FromCtx(logx.WithChat(ctx, cb.Ref.ChatID, cb.UserID))
	l.Info().
		Str("state", st.String()).AnErr("err", err).Msg("selection handled")
}
