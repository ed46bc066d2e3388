// Package resolver lists and fetches media through the yt-dlp executable.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wapuda/tg-ytfetch/internal/logx"
	"github.com/wapuda/tg-ytfetch/internal/media"
)

// YtDlp runs yt-dlp. The zero value is not usable; use New.
type YtDlp struct {
	bin     string
	cookies string
}

// New returns a resolver using the given binary. cookiesFile is passed with
// --cookies only if it exists at call time.
func New(bin, cookiesFile string) *YtDlp {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &YtDlp{bin: bin, cookies: cookiesFile}
}

// yt-dlp -J output, only the fields we read.
type infoJSON struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Uploader   string       `json:"uploader"`
	Channel    string       `json:"channel"`
	Thumbnail  string       `json:"thumbnail"`
	Duration   float64      `json:"duration"`
	UploadDate string       `json:"upload_date"` // YYYYMMDD
	Formats    []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *int     `json:"height"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
}

func (y *YtDlp) baseArgs() []string {
	args := []string{"--no-playlist", "--no-warnings"}
	if y.cookies != "" {
		if _, err := os.Stat(y.cookies); err == nil {
			args = append(args, "--cookies", y.cookies)
		}
	}
	return args
}

// FetchMetadata lists the formats of url without downloading.
func (y *YtDlp) FetchMetadata(ctx context.Context, url string) (media.MediaItem, []media.EncodingOption, error) {
	args := append(y.baseArgs(), "-J", url)
	out, err := y.run(ctx, "metadata", args)
	if err != nil {
		return media.MediaItem{}, nil, err
	}
	return parseInfo(out)
}

// Download fetches url with the given format selector. outputTemplate is a
// yt-dlp output template such as "/tmp/x/%(id)s.%(ext)s". It returns the
// path of the final file.
func (y *YtDlp) Download(ctx context.Context, url, formatSelector, outputTemplate string) (string, error) {
	args := append(y.baseArgs(),
		"-f", formatSelector,
		"-o", outputTemplate,
		"--merge-output-format", media.VideoContainer,
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	)
	out, err := y.run(ctx, "download", args)
	if err != nil {
		return "", err
	}
	if p := lastLine(out); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	// Older builds without --print after_move: look for the templated name only.
	matches, _ := filepath.Glob(outputGlob(outputTemplate))
	for _, m := range matches {
		if st, err := os.Stat(m); err == nil && st.Mode().IsRegular() && !strings.HasSuffix(m, ".part") {
			return m, nil
		}
	}
	return "", errors.New("yt-dlp finished but produced no file")
}

// outputGlob turns "dir/<id>.%(ext)s" into "dir/<id>.*". Other templates are
// matched literally.
func outputGlob(outputTemplate string) string {
	base := filepath.Base(outputTemplate)
	prefix, ok := strings.CutSuffix(base, "%(ext)s")
	if !ok || strings.Contains(prefix, "%(") {
		return outputTemplate
	}
	return filepath.Join(filepath.Dir(outputTemplate), prefix+"*")
}

func (y *YtDlp) run(ctx context.Context, op string, args []string) ([]byte, error) {
	lw := logx.NewLineWriter(map[string]string{"proc": "yt-dlp", "op": op}, zerolog.DebugLevel)

	cmd := exec.CommandContext(ctx, y.bin, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", y.bin, err)
	}
	// Wait closes the pipe, so stderr is read to EOF first.
	lw.Pipe(stderr)
	if err := cmd.Wait(); err != nil {
		if tail := lw.Tail(); tail != "" {
			return nil, fmt.Errorf("yt-dlp %s: %w: %s", op, err, tail)
		}
		return nil, fmt.Errorf("yt-dlp %s: %w", op, err)
	}
	return stdout.Bytes(), nil
}

func parseInfo(raw []byte) (media.MediaItem, []media.EncodingOption, error) {
	var info infoJSON
	if err := json.Unmarshal(raw, &info); err != nil {
		return media.MediaItem{}, nil, fmt.Errorf("decode yt-dlp json: %w", err)
	}
	if info.ID == "" {
		return media.MediaItem{}, nil, errors.New("yt-dlp json has no id")
	}

	item := media.MediaItem{
		ID:          info.ID,
		Title:       info.Title,
		Author:      info.Uploader,
		Thumbnail:   info.Thumbnail,
		DurationSec: int(info.Duration),
	}
	if item.Author == "" {
		item.Author = info.Channel
	}
	if item.DurationSec < 0 {
		item.DurationSec = 0
	}
	if t, err := time.Parse("20060102", info.UploadDate); err == nil {
		item.Published = t
	}

	opts := make([]media.EncodingOption, 0, len(info.Formats))
	for _, f := range info.Formats {
		kind, ok := formatKind(f.VCodec, f.ACodec)
		if !ok || f.FormatID == "" {
			continue
		}
		o := media.EncodingOption{FormatID: f.FormatID, Kind: kind, Container: f.Ext}
		if kind.HasVideo() && f.Height != nil && *f.Height > 0 {
			o.Height = *f.Height
		}
		switch {
		case f.Filesize != nil && *f.Filesize > 0:
			o.SizeBytes = *f.Filesize
		case f.FilesizeApprox != nil && *f.FilesizeApprox > 0:
			o.SizeBytes = int64(*f.FilesizeApprox)
		}
		opts = append(opts, o)
	}
	return item, opts, nil
}

// formatKind mirrors yt-dlp's convention: "none" marks an absent stream, an
// empty codec means unknown and is treated as present.
func formatKind(vcodec, acodec string) (media.Kind, bool) {
	hasVideo := vcodec != "none"
	hasAudio := acodec != "none"
	switch {
	case hasVideo && hasAudio:
		return media.KindVideoAudio, true
	case hasVideo:
		return media.KindVideoOnly, true
	case hasAudio:
		return media.KindAudioOnly, true
	default:
		return "", false
	}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
