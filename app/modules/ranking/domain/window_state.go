package rankingdomain

import (
	"fmt"
	"time"
)

// WindowPhase is the challenge-calendar phase a ranking is in at one instant.
type WindowPhase string

const (
	PhaseBefore      WindowPhase = "before"
	PhaseClosed      WindowPhase = "closed"
	PhaseWaitingBlue WindowPhase = "waiting_blue"
	PhaseBlue        WindowPhase = "blue"
	PhaseWaitingOpen WindowPhase = "waiting_open"
	PhaseAfterOpen   WindowPhase = "after_open"
	PhaseOpen        WindowPhase = "open"
)

// WindowState is the answer to "may challenges be created right now, and if
// not, when does that change". UnlockAt is nil when the phase is terminal for
// the round.
type WindowState struct {
	Phase        WindowPhase
	Allowed      bool
	RequiresBlue bool
	UnlockAt     *time.Time
	Message      string
}

const stateTimeLayout = "Mon 2 Jan 15:04"

func formatAt(t, now time.Time) string {
	return t.In(now.Location()).Format(stateTimeLayout)
}

// ToWindowState maps a window and an instant into exactly one phase. The
// checks run in fixed priority order and the first match wins; given the same
// (window, now) the result is always identical.
func ToWindowState(w Window, now time.Time) WindowState {
	if now.Before(w.RoundStart) {
		unlock := w.RoundStart
		return WindowState{
			Phase:    PhaseBefore,
			UnlockAt: &unlock,
			Message:  fmt.Sprintf("The round has not started yet. Challenges open %s.", formatAt(unlock, now)),
		}
	}

	if w.RoundEnd != nil && now.After(*w.RoundEnd) {
		return WindowState{
			Phase:   PhaseClosed,
			Message: fmt.Sprintf("The round closed %s. No further challenges may be created.", formatAt(*w.RoundEnd, now)),
		}
	}

	if now.Before(w.BlueStart) {
		unlock := w.BlueStart
		return WindowState{
			Phase:    PhaseWaitingBlue,
			UnlockAt: &unlock,
			Message:  fmt.Sprintf("Blue-point challenges open %s.", formatAt(unlock, now)),
		}
	}

	blueEnd := w.OpenStart
	if w.BlueEnd != nil {
		blueEnd = *w.BlueEnd
	}
	if now.Before(blueEnd) {
		return WindowState{
			Phase:        PhaseBlue,
			Allowed:      true,
			RequiresBlue: true,
			Message:      fmt.Sprintf("Blue-point window is open until %s. Only blue-point holders may issue challenges.", formatAt(blueEnd, now)),
		}
	}

	if now.Before(w.OpenStart) {
		unlock := w.OpenStart
		return WindowState{
			Phase:    PhaseWaitingOpen,
			UnlockAt: &unlock,
			Message:  fmt.Sprintf("Open challenges start %s.", formatAt(unlock, now)),
		}
	}

	if w.OpenEnd != nil && !now.Before(*w.OpenEnd) {
		return WindowState{
			Phase:   PhaseAfterOpen,
			Message: fmt.Sprintf("The open-challenge window ended %s.", formatAt(*w.OpenEnd, now)),
		}
	}

	return WindowState{
		Phase:   PhaseOpen,
		Allowed: true,
		Message: "Open challenges may be created.",
	}
}
