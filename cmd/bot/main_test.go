package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestServeWaitsForHandlersOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan tgbotapi.Update)
	started := make(chan struct{}, 2)
	var finished, stopped atomic.Int32

	done := make(chan struct{})
	go func() {
		serve(ctx, updates, func() { stopped.Add(1) }, func(ctx context.Context, _ tgbotapi.Update) {
			started <- struct{}{}
			<-ctx.Done()
			// cleanup after cancellation, like removing a scratch dir
			time.Sleep(50 * time.Millisecond)
			finished.Add(1)
		})
		close(done)
	}()

	updates <- tgbotapi.Update{UpdateID: 1}
	updates <- tgbotapi.Update{UpdateID: 2}
	<-started
	<-started
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
	if finished.Load() != 2 {
		t.Fatalf("serve returned with %d of 2 handlers finished", finished.Load())
	}
	if stopped.Load() != 1 {
		t.Fatalf("stop called %d times", stopped.Load())
	}
}

func TestServeReturnsWhenUpdatesClose(t *testing.T) {
	updates := make(chan tgbotapi.Update, 1)
	var handled atomic.Int32
	updates <- tgbotapi.Update{UpdateID: 1}
	close(updates)

	serve(context.Background(), updates, func() { t.Error("stop must not be called") }, func(context.Context, tgbotapi.Update) {
		time.Sleep(20 * time.Millisecond)
		handled.Add(1)
	})
	if handled.Load() != 1 {
		t.Fatalf("handled=%d", handled.Load())
	}
}
