// Package telegram adapts go-telegram-bot-api to the orchestrator's Chat.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wapuda/tg-ytfetch/internal/media"
	"github.com/wapuda/tg-ytfetch/internal/orchestrator"
)

// Chat sends through a bot. tgbotapi calls are not context aware; ctx is
// accepted to satisfy the interface.
type Chat struct {
	bot *tgbotapi.BotAPI
}

var _ orchestrator.Chat = (*Chat)(nil)

func New(bot *tgbotapi.BotAPI) *Chat { return &Chat{bot: bot} }

func (c *Chat) SendText(_ context.Context, chatID int64, text string) (orchestrator.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := c.bot.Send(msg)
	if err != nil {
		return orchestrator.MessageRef{}, err
	}
	return orchestrator.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (c *Chat) SendMenu(_ context.Context, chatID int64, photoURL, caption string, kb media.Keyboard) (orchestrator.MessageRef, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if m := Markup(kb); m != nil {
		photo.ReplyMarkup = *m
	}
	sent, err := c.bot.Send(photo)
	if err != nil {
		return orchestrator.MessageRef{}, err
	}
	return orchestrator.MessageRef{ChatID: chatID, MessageID: sent.MessageID, Photo: true}, nil
}

// Edit replaces the caption of photo messages or the text of text messages.
// An empty keyboard removes the buttons.
func (c *Chat) Edit(_ context.Context, ref orchestrator.MessageRef, text string, kb media.Keyboard) error {
	var req tgbotapi.Chattable
	if ref.Photo {
		e := tgbotapi.NewEditMessageCaption(ref.ChatID, ref.MessageID, text)
		e.ParseMode = tgbotapi.ModeHTML
		e.ReplyMarkup = Markup(kb)
		req = e
	} else {
		e := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
		e.ParseMode = tgbotapi.ModeHTML
		e.ReplyMarkup = Markup(kb)
		req = e
	}
	_, err := c.bot.Request(req)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func (c *Chat) Delete(_ context.Context, ref orchestrator.MessageRef) error {
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID))
	return err
}

func (c *Chat) SendVideo(_ context.Context, chatID int64, path string, item media.MediaItem) error {
	v := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	v.SupportsStreaming = true
	v.Duration = item.DurationSec
	_, err := c.bot.Send(v)
	return err
}

func (c *Chat) SendAudio(_ context.Context, chatID int64, path string, item media.MediaItem) error {
	a := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	a.Title = item.Title
	a.Performer = item.Author
	a.Duration = item.DurationSec
	_, err := c.bot.Send(a)
	return err
}

func (c *Chat) AnswerCallback(_ context.Context, callbackID, text string) error {
	_, err := c.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// Markup converts a keyboard. Empty keyboards yield nil.
func Markup(kb media.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb.Empty() {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		if len(row) == 0 {
			continue
		}
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btns...))
	}
	m := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &m
}

// FromCallback converts a callback query. The caption falls back to the
// message text for menus shown without a thumbnail.
func FromCallback(cq *tgbotapi.CallbackQuery) orchestrator.Callback {
	cb := orchestrator.Callback{ID: cq.ID, Data: cq.Data}
	if cq.From != nil {
		cb.UserID = cq.From.ID
	}
	if m := cq.Message; m != nil {
		cb.Ref = orchestrator.MessageRef{MessageID: m.MessageID, Photo: len(m.Photo) > 0}
		if m.Chat != nil {
			cb.Ref.ChatID = m.Chat.ID
		}
		cb.Caption = m.Caption
		if !cb.Ref.Photo {
			cb.Caption = m.Text
		}
	}
	return cb
}

// NewBot authorizes against api.telegram.org, or a local Bot API server when
// endpoint is set (format "http://host:8081/bot%s/%s").
func NewBot(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if endpoint != "" {
		return tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	}
	return tgbotapi.NewBotAPI(token)
}
