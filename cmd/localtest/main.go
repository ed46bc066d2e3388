package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/wapuda/tg-ytfetch/internal/catalog"
	"github.com/wapuda/tg-ytfetch/internal/config"
	"github.com/wapuda/tg-ytfetch/internal/logx"
	"github.com/wapuda/tg-ytfetch/internal/resolver"
	"github.com/wapuda/tg-ytfetch/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/localtest <youtube-link> [entry-number]")
		return
	}
	_ = godotenv.Load()
	c := config.Load()
	lc := config.Log("localtest")
	lc.Format = "console"
	logx.Setup(lc)

	id, err := resolver.ParseLink(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("link")
	}
	ctx := context.Background()
	res := resolver.New(c.YtDlpPath, c.CookiesFile)

	item, opts, err := res.FetchMetadata(ctx, resolver.WatchURL(id))
	if err != nil {
		log.Fatal().Err(err).Msg("metadata")
	}
	entries, err := catalog.BuildMenu(item, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("menu")
	}

	fmt.Println(catalog.Caption(item))
	fmt.Println()
	for i, e := range entries {
		sel, err := token.Decode(e.Token)
		if err != nil {
			log.Fatal().Err(err).Str("token", e.Token).Msg("decode")
		}
		fmt.Printf("%2d. %-24s %-28s %s (%d bytes)\n", i+1, e.Label, e.Token, sel.Request().FormatSelector, len(e.Token))
	}

	if len(os.Args) < 3 {
		return
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil || n < 1 || n > len(entries) {
		log.Fatal().Str("entry", os.Args[2]).Msg("entry out of range")
	}
	sel, _ := token.Decode(entries[n-1].Token)
	out := "./out"
	if err := os.MkdirAll(out, 0o755); err != nil {
		log.Fatal().Err(err).Msg("out dir")
	}
	path, err := res.Download(ctx, resolver.WatchURL(sel.MediaID), sel.Request().FormatSelector,
		filepath.Join(out, sel.MediaID+".%(ext)s"))
	if err != nil {
		log.Fatal().Err(err).Msg("download")
	}
	fmt.Println("Downloaded:", path)
}
