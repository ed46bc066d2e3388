// Package token encodes menu choices into inline button payloads and back.
//
// A token has four fields joined by ':':
//
//	dl:<video|audio>:<tag>_<value>:<media id>
//
// The tag selects the fetch strategy: "f" is a ready-made format id, "a" an
// audio format id, "h" a height that the resolver must satisfy by merging the
// best video at that height with the best audio.
package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

const (
	Action    = "dl"
	Delimiter = ":"
	// MaxLen is Telegram's callback_data limit in bytes.
	MaxLen = 64

	fields = 4
)

type Tag string

const (
	TagReady Tag = "f"
	TagAudio Tag = "a"
	TagMerge Tag = "h"
)

// FormatSpec is the strategy part of a token.
type FormatSpec struct {
	Tag   Tag
	Value string
}

func Ready(formatID string) FormatSpec { return FormatSpec{Tag: TagReady, Value: formatID} }
func Audio(formatID string) FormatSpec { return FormatSpec{Tag: TagAudio, Value: formatID} }
func Merge(height int) FormatSpec {
	return FormatSpec{Tag: TagMerge, Value: strconv.Itoa(height)}
}

func (s FormatSpec) String() string { return string(s.Tag) + "_" + s.Value }

// ParseFormatSpec parses "<tag>_<value>".
func ParseFormatSpec(s string) (FormatSpec, error) {
	tag, value, ok := strings.Cut(s, "_")
	if !ok || value == "" {
		return FormatSpec{}, fmt.Errorf("%w: %q", media.ErrUnrecognizedFormatSpec, s)
	}
	switch Tag(tag) {
	case TagReady, TagAudio:
		return FormatSpec{Tag: Tag(tag), Value: value}, nil
	case TagMerge:
		if h, err := strconv.Atoi(value); err != nil || h <= 0 {
			return FormatSpec{}, fmt.Errorf("%w: bad height %q", media.ErrUnrecognizedFormatSpec, value)
		}
		return FormatSpec{Tag: TagMerge, Value: value}, nil
	default:
		return FormatSpec{}, fmt.Errorf("%w: tag %q", media.ErrUnrecognizedFormatSpec, tag)
	}
}

// Selector returns the resolver format selector for the spec.
func (s FormatSpec) Selector() string {
	if s.Tag == TagMerge {
		return fmt.Sprintf("bestvideo[height=%[1]s][ext=%[2]s]+bestaudio[ext=%[3]s]/best[height=%[1]s][ext=%[2]s]",
			s.Value, media.VideoContainer, media.AudioContainer)
	}
	return s.Value
}

// Selection is a decoded token.
type Selection struct {
	Kind    media.RequestKind
	Spec    FormatSpec
	MediaID string
}

// Request converts the selection into a resolver download request.
func (s Selection) Request() media.DownloadRequest {
	return media.DownloadRequest{
		MediaID:        s.MediaID,
		Kind:           s.Kind,
		FormatSelector: s.Spec.Selector(),
	}
}

// Encode builds the token for a menu entry.
func Encode(kind media.RequestKind, spec FormatSpec, mediaID string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: request kind %q", media.ErrMalformedToken, kind)
	}
	if mediaID == "" || strings.Contains(mediaID, Delimiter) {
		return "", fmt.Errorf("%w: media id %q", media.ErrMalformedToken, mediaID)
	}
	if strings.Contains(spec.Value, Delimiter) {
		return "", fmt.Errorf("%w: format value %q", media.ErrMalformedToken, spec.Value)
	}
	if _, err := ParseFormatSpec(spec.String()); err != nil {
		return "", err
	}
	tok := strings.Join([]string{Action, string(kind), spec.String(), mediaID}, Delimiter)
	if len(tok) > MaxLen {
		return "", fmt.Errorf("%w: %d bytes", media.ErrTokenTooLong, len(tok))
	}
	return tok, nil
}

// Decode parses a token received from a button press.
func Decode(tok string) (Selection, error) {
	parts := strings.SplitN(tok, Delimiter, fields)
	if len(parts) != fields {
		return Selection{}, fmt.Errorf("%w: %d parts", media.ErrMalformedToken, len(parts))
	}
	action, kind, rawSpec, mediaID := parts[0], media.RequestKind(parts[1]), parts[2], parts[3]
	if action != Action {
		return Selection{}, fmt.Errorf("%w: %q", media.ErrUnknownAction, action)
	}
	if !kind.Valid() {
		return Selection{}, fmt.Errorf("%w: request kind %q", media.ErrMalformedToken, kind)
	}
	if mediaID == "" || strings.Contains(mediaID, Delimiter) {
		return Selection{}, fmt.Errorf("%w: media id %q", media.ErrMalformedToken, mediaID)
	}
	spec, err := ParseFormatSpec(rawSpec)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Kind: kind, Spec: spec, MediaID: mediaID}, nil
}
