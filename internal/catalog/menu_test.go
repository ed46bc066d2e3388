package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

var item = media.MediaItem{ID: "abc123", Title: "Me at the zoo", Author: "jawed", DurationSec: 19}

func TestBuildMenuScenario(t *testing.T) {
	opts := []media.EncodingOption{
		{FormatID: "137", Kind: media.KindVideoOnly, Container: "mp4", Height: 720},
		{FormatID: "18", Kind: media.KindVideoAudio, Container: "mp4", Height: 480},
		{FormatID: "140", Kind: media.KindAudioOnly, Container: "m4a", SizeBytes: 3_000_000},
	}
	entries, err := BuildMenu(item, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []media.MenuEntry{
		{Label: "🎧 Audio / ~2.9 MB", Token: "dl:audio:a_140:abc123", Kind: media.RequestAudio},
		{Label: "🎬 720p / ~0.0 MB", Token: "dl:video:h_720:abc123", Kind: media.RequestVideo, Height: 720},
		{Label: "🎬 480p / ~0.0 MB", Token: "dl:video:f_18:abc123", Kind: media.RequestVideo, Height: 480},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry[%d]=%+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestBuildMenuDedupesHeights(t *testing.T) {
	opts := []media.EncodingOption{
		{FormatID: "134", Kind: media.KindVideoOnly, Container: "mp4", Height: 360},
		{FormatID: "18", Kind: media.KindVideoAudio, Container: "mp4", Height: 360},
		{FormatID: "136", Kind: media.KindVideoOnly, Container: "mp4", Height: 720},
		{FormatID: "22", Kind: media.KindVideoAudio, Container: "mp4", Height: 720},
		{FormatID: "247", Kind: media.KindVideoOnly, Container: "webm", Height: 720},
		{FormatID: "248", Kind: media.KindVideoOnly, Container: "webm", Height: 1080},
		{FormatID: "sb0", Kind: "", Container: "mhtml", Height: 90},
	}
	entries, err := BuildMenu(item, opts)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, e := range entries {
		if e.Kind != media.RequestVideo {
			t.Fatalf("unexpected non-video entry %+v", e)
		}
		if seen[e.Height] {
			t.Fatalf("height %d listed twice", e.Height)
		}
		seen[e.Height] = true
	}
	if len(entries) != 2 || entries[0].Height != 720 || entries[1].Height != 360 {
		t.Fatalf("entries=%+v", entries)
	}
	// Stable sort keeps provider order for ties.
	if entries[0].Token != "dl:video:h_720:abc123" || entries[1].Token != "dl:video:h_360:abc123" {
		t.Fatalf("tie-break changed: %+v", entries)
	}
}

func TestBuildMenuAudioOnly(t *testing.T) {
	opts := []media.EncodingOption{
		{FormatID: "139", Kind: media.KindAudioOnly, Container: "m4a", SizeBytes: 1 << 20},
		{FormatID: "251", Kind: media.KindAudioOnly, Container: "webm", SizeBytes: 2 << 20},
	}
	entries, err := BuildMenu(item, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Token != "dl:audio:a_251:abc123" || entries[0].Label != "🎧 Audio / ~2.0 MB" {
		t.Fatalf("entry=%+v", entries[0])
	}
}

func TestBuildMenuEmpty(t *testing.T) {
	entries, err := BuildMenu(item, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries=%+v", entries)
	}
	if kb := Keyboard(entries); !kb.Empty() {
		t.Fatalf("keyboard=%+v", kb)
	}
}

func TestBuildMenuRejectsBadID(t *testing.T) {
	opts := []media.EncodingOption{{FormatID: "140", Kind: media.KindAudioOnly}}
	if _, err := BuildMenu(media.MediaItem{ID: "a:b"}, opts); err == nil {
		t.Fatal("expected error for id with delimiter")
	}
}

func TestKeyboardOneEntryPerRow(t *testing.T) {
	entries := []media.MenuEntry{{Label: "a", Token: "t1"}, {Label: "b", Token: "t2"}}
	kb := Keyboard(entries)
	if len(kb) != 2 || len(kb[0]) != 1 || kb[1][0].Data != "t2" {
		t.Fatalf("keyboard=%+v", kb)
	}
}

func TestCaption(t *testing.T) {
	it := media.MediaItem{
		Title:       "Tom & Jerry <live>",
		Author:      "WB",
		DurationSec: 3725,
		Published:   time.Date(2005, 4, 23, 0, 0, 0, 0, time.UTC),
	}
	got := Caption(it)
	for _, part := range []string{"<b>Tom &amp; Jerry &lt;live&gt;</b>", "WB", "23.04.2005", "1:02:05"} {
		if !strings.Contains(got, part) {
			t.Fatalf("caption %q missing %q", got, part)
		}
	}
	if !strings.Contains(Caption(media.MediaItem{}), "N/A") {
		t.Fatal("missing date should render as N/A")
	}
}

func TestCaptionTruncatesTitle(t *testing.T) {
	got := Caption(media.MediaItem{Title: strings.Repeat("x", 5000)})
	if n := len([]rune(got)); n > MaxCaption {
		t.Fatalf("caption has %d runes", n)
	}
	if !strings.Contains(got, "…") {
		t.Fatal("expected ellipsis")
	}
}

func TestWithStatus(t *testing.T) {
	if got := WithStatus("<b>t</b>", "📥 Downloading…"); got != "<b>t</b>\n\n<b>📥 Downloading…</b>" {
		t.Fatalf("got %q", got)
	}
}
