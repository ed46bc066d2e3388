package catalog

import (
	"fmt"
	"sort"

	"github.com/wapuda/tg-ytfetch/internal/media"
	"github.com/wapuda/tg-ytfetch/internal/token"
)

const mib = 1024 * 1024

// BuildMenu turns a resolver format list into menu entries: the best
// audio-only option first, then one entry per distinct video height,
// tallest first. Options are expected in the resolver's worst-to-best order.
func BuildMenu(item media.MediaItem, opts []media.EncodingOption) ([]media.MenuEntry, error) {
	var entries []media.MenuEntry

	if audio, ok := bestAudio(opts); ok {
		tok, err := token.Encode(media.RequestAudio, token.Audio(audio.FormatID), item.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, media.MenuEntry{
			Label: fmt.Sprintf("🎧 Audio / ~%s MB", sizeMB(audio.SizeBytes)),
			Token: tok,
			Kind:  media.RequestAudio,
		})
	}

	for _, o := range videoByHeight(opts) {
		spec := token.Ready(o.FormatID)
		if o.Kind == media.KindVideoOnly {
			spec = token.Merge(o.Height)
		}
		tok, err := token.Encode(media.RequestVideo, spec, item.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, media.MenuEntry{
			Label:  fmt.Sprintf("🎬 %dp / ~%s MB", o.Height, sizeMB(o.SizeBytes)),
			Token:  tok,
			Kind:   media.RequestVideo,
			Height: o.Height,
		})
	}
	return entries, nil
}

func bestAudio(opts []media.EncodingOption) (media.EncodingOption, bool) {
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i].Kind == media.KindAudioOnly {
			return opts[i], true
		}
	}
	return media.EncodingOption{}, false
}

// videoByHeight keeps the first target-container option of each height after
// a stable descending sort.
func videoByHeight(opts []media.EncodingOption) []media.EncodingOption {
	var videos []media.EncodingOption
	for _, o := range opts {
		if o.Kind.HasVideo() && o.Container == media.VideoContainer && o.Height > 0 {
			videos = append(videos, o)
		}
	}
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Height > videos[j].Height })

	seen := make(map[int]struct{}, len(videos))
	out := videos[:0]
	for _, o := range videos {
		if _, dup := seen[o.Height]; dup {
			continue
		}
		seen[o.Height] = struct{}{}
		out = append(out, o)
	}
	return out
}

func sizeMB(b int64) string {
	if b < 0 {
		b = 0
	}
	return fmt.Sprintf("%.1f", float64(b)/mib)
}

// Keyboard lays out one entry per row.
func Keyboard(entries []media.MenuEntry) media.Keyboard {
	kb := make(media.Keyboard, 0, len(entries))
	for _, e := range entries {
		kb = append(kb, []media.Button{{Label: e.Label, Data: e.Token}})
	}
	return kb
}
