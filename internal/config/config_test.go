package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"BOT_TOKEN", "REDIS_ADDR", "META_TTL", "TG_UPLOAD_LIMIT_MB", "DOWNLOAD_QUEUE", "CONCURRENCY", "YTDLP_PATH"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.RedisAddr != "localhost:6379" || c.MetaTTL != time.Hour || c.YtDlpPath != "yt-dlp" {
		t.Fatalf("config=%+v", c)
	}
	if c.UploadLimitBytes != 49*1024*1024 || c.DownloadQueue || c.Concurrency != 2 {
		t.Fatalf("config=%+v", c)
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("META_TTL", "15m")
	t.Setenv("TG_UPLOAD_LIMIT_MB", "0")
	t.Setenv("DOWNLOAD_QUEUE", "yes")
	t.Setenv("CONCURRENCY", "not-a-number")
	c := Load()
	if c.MetaTTL != 15*time.Minute || c.UploadLimitBytes != 0 || !c.DownloadQueue || c.Concurrency != 2 {
		t.Fatalf("config=%+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLogDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "CONSOLE")
	t.Setenv("LOG_FILE_COMPRESS", "")
	t.Setenv("LOG_SAMPLE_EVERY", "10")
	c := Log("bot")
	if c.Service != "bot" || c.Level != "info" || c.Format != "console" || c.FileMaxSizeMB != 50 || !c.FileCompress || c.SampleEveryN != 10 {
		t.Fatalf("config=%+v", c)
	}
	t.Setenv("LOG_FILE_COMPRESS", " False ")
	if Log("bot").FileCompress {
		t.Fatal("LOG_FILE_COMPRESS=False should disable compression")
	}
}
