package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

func TestMarkup(t *testing.T) {
	kb := media.Keyboard{
		{{Label: "🎧 Audio / ~2.9 MB", Data: "dl:audio:a_140:abc123"}},
		{},
		{{Label: "🎬 720p / ~0.0 MB", Data: "dl:video:h_720:abc123"}},
	}
	m := Markup(kb)
	if m == nil || len(m.InlineKeyboard) != 2 {
		t.Fatalf("markup=%+v", m)
	}
	b := m.InlineKeyboard[1][0]
	if b.Text != "🎬 720p / ~0.0 MB" || b.CallbackData == nil || *b.CallbackData != "dl:video:h_720:abc123" {
		t.Fatalf("button=%+v", b)
	}
	if Markup(nil) != nil || Markup(media.Keyboard{{}}) != nil {
		t.Fatal("empty keyboard should give nil markup")
	}
}

func TestFromCallbackPhoto(t *testing.T) {
	cq := &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: "dl:video:f_18:abc123",
		From: &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{
			MessageID: 99,
			Chat:      &tgbotapi.Chat{ID: 42},
			Photo:     []tgbotapi.PhotoSize{{FileID: "p"}},
			Caption:   "Me at the zoo",
			Text:      "",
		},
	}
	cb := FromCallback(cq)
	if cb.ID != "cb1" || cb.UserID != 7 || cb.Data != "dl:video:f_18:abc123" {
		t.Fatalf("callback=%+v", cb)
	}
	if cb.Ref.ChatID != 42 || cb.Ref.MessageID != 99 || !cb.Ref.Photo || cb.Caption != "Me at the zoo" {
		t.Fatalf("callback=%+v", cb)
	}
}

func TestFromCallbackText(t *testing.T) {
	cq := &tgbotapi.CallbackQuery{
		ID:      "cb2",
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 1}, Text: "Me at the zoo"},
	}
	cb := FromCallback(cq)
	if cb.Ref.Photo || cb.Caption != "Me at the zoo" || cb.UserID != 0 {
		t.Fatalf("callback=%+v", cb)
	}
}
