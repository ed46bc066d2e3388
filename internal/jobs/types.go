package jobs

import "github.com/wapuda/tg-ytfetch/internal/media"

const (
	TaskDownload = "media:download"
)

// DownloadPayload carries one selection from the bot to the download phase.
type DownloadPayload struct {
	ChatID    int64                 `json:"chat_id"`
	UserID    int64                 `json:"user_id"`
	MessageID int                   `json:"message_id"` // menu message turned status message
	Photo     bool                  `json:"photo"`      // status lives in a caption, not text
	Caption   string                `json:"caption"`    // pre-download caption (HTML), restored on failure
	Request   media.DownloadRequest `json:"request"`
}
