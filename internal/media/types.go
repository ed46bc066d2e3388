package media

import "time"

// Containers the menu targets. Merge requests ask the resolver for video in
// VideoContainer combined with audio in AudioContainer.
const (
	VideoContainer = "mp4"
	AudioContainer = "m4a"
)

type Kind string

const (
	KindAudioOnly  Kind = "audio-only"
	KindVideoOnly  Kind = "video-only"
	KindVideoAudio Kind = "video+audio"
)

// HasVideo reports whether the kind carries a video stream.
func (k Kind) HasVideo() bool { return k == KindVideoOnly || k == KindVideoAudio }

// RequestKind is what the user asked to receive: a video or an audio file.
type RequestKind string

const (
	RequestVideo RequestKind = "video"
	RequestAudio RequestKind = "audio"
)

func (k RequestKind) Valid() bool { return k == RequestVideo || k == RequestAudio }

// MediaItem is the metadata of one source video.
type MediaItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	DurationSec int       `json:"duration_s"`
	Published   time.Time `json:"published,omitempty"` // zero when unknown
}

// EncodingOption is one entry of the resolver's format list.
type EncodingOption struct {
	FormatID  string
	Kind      Kind
	Container string // extension, e.g. "mp4", "webm", "m4a"
	Height    int    // 0 when absent
	SizeBytes int64  // 0 when unknown
}

// MenuEntry is one selectable button of the download menu.
type MenuEntry struct {
	Label  string
	Token  string
	Kind   RequestKind
	Height int // 0 for the audio entry
}

// DownloadRequest is a decoded selection ready for the resolver.
type DownloadRequest struct {
	MediaID        string      `json:"media_id"`
	Kind           RequestKind `json:"kind"`
	FormatSelector string      `json:"format"`
}

// Button is an inline keyboard button: a label and an opaque payload.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an ordered list of button rows.
type Keyboard [][]Button

func (k Keyboard) Empty() bool {
	for _, row := range k {
		if len(row) > 0 {
			return false
		}
	}
	return true
}
