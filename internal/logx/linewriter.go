package logx

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LineWriter turns stream output into per-line zerolog events at a given level.
// It also remembers the last few lines for error details.
type LineWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
	keep   int

	mu   sync.Mutex
	tail []string
}

func NewLineWriter(fields map[string]string, level zerolog.Level) *LineWriter {
	l := log.Logger
	w := l.With()
	for k, v := range fields {
		w = w.Str(k, v)
	}
	return &LineWriter{logger: w.Logger(), level: level, keep: 5}
}

// Pipe logs r line by line until EOF. A line over 1 MiB stops the scanner;
// the rest of r is still drained so the writing process never blocks.
func (lw *LineWriter) Pipe(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		lw.remember(line)
		switch lw.level {
		case zerolog.DebugLevel:
			lw.logger.Debug().Msg(line)
		case zerolog.ErrorLevel:
			lw.logger.Error().Msg(line)
		default:
			lw.logger.Info().Msg(line)
		}
	}
	if err := sc.Err(); err != nil {
		lw.logger.Warn().Err(err).Msg("stream not line-readable, discarding the rest")
		n, _ := io.Copy(io.Discard, r)
		lw.logger.Debug().Int64("bytes", n).Msg("stream drained")
	}
}

func (lw *LineWriter) remember(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.tail = append(lw.tail, line)
	if len(lw.tail) > lw.keep {
		lw.tail = lw.tail[len(lw.tail)-lw.keep:]
	}
}

// Tail returns the last remembered lines joined by newlines.
func (lw *LineWriter) Tail() string {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return strings.Join(lw.tail, "\n")
}
