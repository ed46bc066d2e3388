package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wapuda/tg-ytfetch/internal/logx"
)

type Config struct {
	BotToken         string
	TelegramEndpoint string // optional local Bot API server, "" = api.telegram.org
	RedisAddr        string
	MetaTTL          time.Duration
	DataDir          string
	YtDlpPath        string
	CookiesFile      string
	UploadLimitBytes int64 // 0 = no limit
	DownloadQueue    bool
	Concurrency      int
	HealthAddr       string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func mustInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
func mustBool(k string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return def
}
func mustDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads the environment. Call godotenv.Load first to honour a .env file.
func Load() Config {
	mb := mustInt("TG_UPLOAD_LIMIT_MB", 49)
	if mb < 0 {
		mb = 0
	}
	return Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		TelegramEndpoint: os.Getenv("TELEGRAM_API_ENDPOINT"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		MetaTTL:          mustDuration("META_TTL", time.Hour),
		DataDir:          getenv("DATA_DIR", filepath.Join(os.TempDir(), "ytfetch")),
		YtDlpPath:        getenv("YTDLP_PATH", "yt-dlp"),
		CookiesFile:      getenv("COOKIES_FILE", "cookies.txt"),
		UploadLimitBytes: int64(mb) * 1024 * 1024,
		DownloadQueue:    mustBool("DOWNLOAD_QUEUE", false),
		Concurrency:      mustInt("CONCURRENCY", 2),
		HealthAddr:       getenv("HEALTH_ADDR", ":8080"),
	}
}

// Log reads the LOG_* variables for the named service.
func Log(service string) logx.Config {
	return logx.Config{
		Service:        service,
		Level:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		Format:         strings.ToLower(getenv("LOG_FORMAT", "json")),
		FilePath:       getenv("LOG_FILE", ""),
		FileMaxSizeMB:  mustInt("LOG_FILE_MAX_SIZE", 50),
		FileMaxBackups: mustInt("LOG_FILE_MAX_BACKUPS", 3),
		FileMaxAgeDays: mustInt("LOG_FILE_MAX_AGE", 7),
		FileCompress:   mustBool("LOG_FILE_COMPRESS", true),
		SampleEveryN:   mustInt("LOG_SAMPLE_EVERY", 0),
	}
}

func (c Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if c.Concurrency < 1 {
		return errors.New("CONCURRENCY must be at least 1")
	}
	return nil
}
