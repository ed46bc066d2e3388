package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wapuda/tg-ytfetch/internal/logx"
	"github.com/wapuda/tg-ytfetch/internal/media"
)

type State int

const (
	StateIdle State = iota
	StateMenuRequested
	StateMenuShown
	StateSelectionReceived
	StateDownloading
	StateDelivered
	StateFailed
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateMenuRequested:     "menu_requested",
	StateMenuShown:         "menu_shown",
	StateSelectionReceived: "selection_received",
	StateDownloading:       "downloading",
	StateDelivered:         "delivered",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) Terminal() bool { return s == StateDelivered || s == StateFailed }

// interaction tracks one user interaction through the state machine.
type interaction struct {
	state State
	log   zerolog.Logger
}

func begin(ctx context.Context, s State) *interaction {
	return &interaction{state: s, log: logx.FromCtx(ctx)}
}

func (it *interaction) to(next State) State {
	if it.state.Terminal() {
		it.log.Warn().Str("from", it.state.String()).Str("to", next.String()).Msg("transition from terminal state")
	}
	it.log.Debug().Str("from", it.state.String()).Str("to", next.String()).Msg("state")
	it.state = next
	return next
}

func (it *interaction) fail(err error) (State, error) {
	it.log.Error().Err(err).
		Str("category", string(media.ClassifyError(err))).
		Str("at", it.state.String()).
		Msg("interaction failed")
	return it.to(StateFailed), err
}
