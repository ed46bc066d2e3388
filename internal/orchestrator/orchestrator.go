// Package orchestrator runs one user interaction: link, menu, selection,
// download and delivery. Each call handles a single interaction and blocks
// until it reaches a resting or terminal state.
package orchestrator

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/wapuda/tg-ytfetch/internal/catalog"
	"github.com/wapuda/tg-ytfetch/internal/jobs"
	"github.com/wapuda/tg-ytfetch/internal/logx"
	"github.com/wapuda/tg-ytfetch/internal/media"
	"github.com/wapuda/tg-ytfetch/internal/resolver"
	"github.com/wapuda/tg-ytfetch/internal/token"
)

const (
	Greeting = "Hi! 👋\n\nSend me a YouTube link and I'll show a download menu."

	statusLookup    = "🔍 Looking up available formats…"
	statusDownload  = "📥 Downloading the selected format…"
	statusUpload    = "📤 Uploading the file…"
	statusNoFormats = "No downloadable formats found."
)

type Options struct {
	Meta        MetaStore  // optional
	Dispatcher  Dispatcher // nil runs downloads inline
	ScratchDir  string     // parent of per-interaction directories
	UploadLimit int64      // bytes, 0 = no limit
}

type Orchestrator struct {
	chat     Chat
	resolver Resolver
	opts     Options
}

func New(chat Chat, res Resolver, opts Options) *Orchestrator {
	if opts.ScratchDir == "" {
		opts.ScratchDir = filepath.Join(os.TempDir(), "ytfetch")
	}
	return &Orchestrator{chat: chat, resolver: res, opts: opts}
}

// Start answers the greeting command.
func (o *Orchestrator) Start(ctx context.Context, chatID int64) error {
	_, err := o.chat.SendText(ctx, chatID, Greeting)
	return err
}

// HandleLink validates text as a link and shows the download menu.
func (o *Orchestrator) HandleLink(ctx context.Context, chatID, userID int64, text string) (State, error) {
	ctx = logx.WithChat(ctx, chatID, userID)
	it := begin(ctx, StateIdle)

	id, err := resolver.ParseLink(text)
	if err != nil {
		it.log.Info().Err(err).Msg("invalid link")
		o.sendText(ctx, chatID, media.UserMessage(err))
		return StateIdle, err
	}
	ctx = logx.WithMedia(ctx, id)
	it = begin(ctx, StateIdle)
	it.to(StateMenuRequested)

	status, err := o.chat.SendText(ctx, chatID, statusLookup)
	if err != nil {
		return it.fail(media.Wrap(media.ErrDelivery, "send status", err))
	}

	item, opts, err := o.resolver.FetchMetadata(ctx, resolver.WatchURL(id))
	if err != nil {
		err = media.Wrap(media.ErrResolverMetadata, "fetch metadata", err)
		o.edit(ctx, status, media.UserMessage(err), nil)
		return it.fail(err)
	}
	entries, err := catalog.BuildMenu(item, opts)
	if err != nil {
		err = media.Wrap(media.ErrResolverMetadata, "build menu", err)
		o.edit(ctx, status, media.UserMessage(err), nil)
		return it.fail(err)
	}
	it.log.Info().Int("formats", len(opts)).Int("entries", len(entries)).Msg("menu built")

	if o.opts.Meta != nil {
		if err := o.opts.Meta.Put(ctx, item); err != nil {
			it.log.Warn().Err(err).Msg("cache metadata")
		}
	}

	caption := catalog.Caption(item)
	if len(entries) == 0 {
		caption = catalog.WithStatus(caption, statusNoFormats)
	}
	kb := catalog.Keyboard(entries)

	if item.Thumbnail != "" {
		_, err := o.chat.SendMenu(ctx, chatID, item.Thumbnail, caption, kb)
		if err == nil {
			o.delete(ctx, status)
			return it.to(StateMenuShown), nil
		}
		it.log.Warn().Err(err).Msg("send photo menu; falling back to text")
	}
	if err := o.chat.Edit(ctx, status, caption, kb); err != nil {
		return it.fail(media.Wrap(media.ErrDelivery, "show menu", err))
	}
	return it.to(StateMenuShown), nil
}

// HandleSelection decodes a button press and runs or dispatches the download.
func (o *Orchestrator) HandleSelection(ctx context.Context, cb Callback) (State, error) {
	ctx = logx.WithChat(ctx, cb.Ref.ChatID, cb.UserID)
	it := begin(ctx, StateMenuShown)

	if err := o.chat.AnswerCallback(ctx, cb.ID, ""); err != nil {
		it.log.Warn().Err(err).Msg("answer callback")
	}

	sel, err := token.Decode(cb.Data)
	if err != nil {
		it.log.Warn().Str("data", cb.Data).Msg("bad button data")
		o.edit(ctx, cb.Ref, media.UserMessage(err), nil)
		return it.fail(err)
	}
	ctx = logx.WithMedia(ctx, sel.MediaID)
	it = begin(ctx, StateMenuShown)
	it.to(StateSelectionReceived)

	p := jobs.DownloadPayload{
		ChatID:    cb.Ref.ChatID,
		UserID:    cb.UserID,
		MessageID: cb.Ref.MessageID,
		Photo:     cb.Ref.Photo,
		Caption:   o.baseCaption(ctx, sel.MediaID, cb.Caption),
		Request:   sel.Request(),
	}
	it.log.Info().Str("kind", string(p.Request.Kind)).Str("format", p.Request.FormatSelector).Msg("selection received")

	o.edit(ctx, cb.Ref, catalog.WithStatus(p.Caption, statusDownload), nil)
	it.to(StateDownloading)

	if o.opts.Dispatcher == nil {
		return o.deliver(ctx, it, p)
	}
	if err := o.opts.Dispatcher.Dispatch(ctx, p); err != nil {
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrResolverDownload, "dispatch", err))
	}
	return StateDownloading, nil
}

// Deliver runs the download phase for a dispatched payload.
func (o *Orchestrator) Deliver(ctx context.Context, p jobs.DownloadPayload) (State, error) {
	ctx = logx.WithMedia(logx.WithChat(ctx, p.ChatID, p.UserID), p.Request.MediaID)
	return o.deliver(ctx, begin(ctx, StateDownloading), p)
}

func (o *Orchestrator) deliver(ctx context.Context, it *interaction, p jobs.DownloadPayload) (State, error) {
	ref := MessageRef{ChatID: p.ChatID, MessageID: p.MessageID, Photo: p.Photo}
	req := p.Request

	dir, release, err := o.scratch()
	if err != nil {
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrResolverDownload, "scratch dir", err))
	}
	defer release()

	tmpl := filepath.Join(dir, req.MediaID+".%(ext)s")
	path, err := o.resolver.Download(ctx, resolver.WatchURL(req.MediaID), req.FormatSelector, tmpl)
	if err != nil {
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrResolverDownload, "download", err))
	}

	st, err := os.Stat(path)
	if err != nil {
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrResolverDownload, "stat", err))
	}
	if o.opts.UploadLimit > 0 && st.Size() > o.opts.UploadLimit {
		err := fmt.Errorf("%w: %d bytes over %d", media.ErrFileTooLarge, st.Size(), o.opts.UploadLimit)
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrDelivery, "check size", err))
	}
	it.log.Info().Int64("bytes", st.Size()).Str("file", filepath.Base(path)).Msg("downloaded")

	o.edit(ctx, ref, catalog.WithStatus(p.Caption, statusUpload), nil)

	item := o.lookup(ctx, req.MediaID)
	if req.Kind == media.RequestAudio {
		err = o.chat.SendAudio(ctx, p.ChatID, path, item)
	} else {
		err = o.chat.SendVideo(ctx, p.ChatID, path, item)
	}
	if err != nil {
		return o.failDownload(ctx, it, p, media.Wrap(media.ErrDelivery, "send file", err))
	}

	o.delete(ctx, ref)
	it.log.Info().Msg("delivered")
	return it.to(StateDelivered), nil
}

func (o *Orchestrator) failDownload(ctx context.Context, it *interaction, p jobs.DownloadPayload, err error) (State, error) {
	o.sendText(ctx, p.ChatID, media.UserMessage(err))
	o.edit(ctx, MessageRef{ChatID: p.ChatID, MessageID: p.MessageID, Photo: p.Photo}, p.Caption, nil)
	return it.fail(err)
}

// scratch creates a per-interaction directory and returns its remover.
func (o *Orchestrator) scratch() (string, func(), error) {
	if err := os.MkdirAll(o.opts.ScratchDir, 0o755); err != nil {
		return "", nil, err
	}
	dir := filepath.Join(o.opts.ScratchDir, ulid.Make().String())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", nil, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func (o *Orchestrator) lookup(ctx context.Context, mediaID string) media.MediaItem {
	if o.opts.Meta != nil {
		item, ok, err := o.opts.Meta.Get(ctx, mediaID)
		if err != nil {
			l := logx.FromCtx(ctx)
			l.Warn().Err(err).Msg("read cached metadata")
		}
		if ok {
			return item
		}
	}
	return media.MediaItem{ID: mediaID}
}

// baseCaption is the menu caption before any status line.
func (o *Orchestrator) baseCaption(ctx context.Context, mediaID, plain string) string {
	if item := o.lookup(ctx, mediaID); item.Title != "" {
		return catalog.Caption(item)
	}
	return html.EscapeString(plain)
}

func (o *Orchestrator) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := o.chat.SendText(ctx, chatID, text); err != nil {
		l := logx.FromCtx(ctx)
		l.Warn().Err(err).Msg("send text")
	}
}

func (o *Orchestrator) edit(ctx context.Context, ref MessageRef, text string, kb media.Keyboard) {
	if err := o.chat.Edit(ctx, ref, text, kb); err != nil {
		l := logx.FromCtx(ctx)
		l.Warn().Err(err).Msg("edit message")
	}
}

func (o *Orchestrator) delete(ctx context.Context, ref MessageRef) {
	if err := o.chat.Delete(ctx, ref); err != nil {
		l := logx.FromCtx(ctx)
		l.Warn().Err(err).Msg("delete message")
	}
}
