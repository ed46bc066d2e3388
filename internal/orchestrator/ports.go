package orchestrator

import (
	"context"

	"github.com/wapuda/tg-ytfetch/internal/jobs"
	"github.com/wapuda/tg-ytfetch/internal/media"
)

// MessageRef points at a sent chat message. Photo messages are edited through
// their caption, text messages through their text.
type MessageRef struct {
	ChatID    int64
	MessageID int
	Photo     bool
}

// Chat is the messaging service. Text and captions are HTML.
type Chat interface {
	SendText(ctx context.Context, chatID int64, text string) (MessageRef, error)
	SendMenu(ctx context.Context, chatID int64, photoURL, caption string, kb media.Keyboard) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, kb media.Keyboard) error
	Delete(ctx context.Context, ref MessageRef) error
	SendVideo(ctx context.Context, chatID int64, path string, item media.MediaItem) error
	SendAudio(ctx context.Context, chatID int64, path string, item media.MediaItem) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Resolver lists formats and fetches files.
type Resolver interface {
	FetchMetadata(ctx context.Context, url string) (media.MediaItem, []media.EncodingOption, error)
	Download(ctx context.Context, url, formatSelector, outputTemplate string) (string, error)
}

// MetaStore caches metadata between the menu and the download.
type MetaStore interface {
	Put(ctx context.Context, item media.MediaItem) error
	Get(ctx context.Context, mediaID string) (media.MediaItem, bool, error)
}

// Dispatcher runs the download phase elsewhere, e.g. on a queue worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, p jobs.DownloadPayload) error
}

// Callback is an inline button press.
type Callback struct {
	ID      string
	UserID  int64
	Ref     MessageRef
	Data    string
	Caption string // plain caption or text of the pressed message
}
