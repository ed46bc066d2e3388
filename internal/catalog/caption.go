package catalog

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

// MaxCaption is Telegram's caption limit in characters.
const MaxCaption = 1024

// Caption renders the HTML menu caption for item.
func Caption(item media.MediaItem) string {
	title := item.Title
	if title == "" {
		title = "Untitled"
	}
	author := item.Author
	if author == "" {
		author = "Unknown"
	}
	date := "N/A"
	if !item.Published.IsZero() {
		date = item.Published.Format("02.01.2006")
	}
	rest := fmt.Sprintf("\n\n👤 <b>Author:</b> %s\n📅 <b>Date:</b> %s\n⏳ <b>Duration:</b> %s",
		html.EscapeString(author), date, Duration(item.DurationSec))

	// Title is the only unbounded field worth cutting.
	budget := MaxCaption - utf8.RuneCountInString(rest) - len("<b></b>")
	return "<b>" + html.EscapeString(truncate(title, budget)) + "</b>" + rest
}

// WithStatus appends a bold status line to a caption.
func WithStatus(caption, status string) string {
	return caption + "\n\n<b>" + html.EscapeString(status) + "</b>"
}

// Duration formats seconds as H:MM:SS.
func Duration(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
