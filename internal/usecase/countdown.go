package usecase

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// tick emits one countdown step, or opens play once the count reaches zero.
// Called with mu held.
func (that *Session) tick() {
	if that.phase != entity.PhaseCountdown {
		return
	}

	if that.countdown > 0 {
		that.broadcast(entity.NewCountdownEvent(fmt.Sprintf(msgCountdownFmt, that.countdown)))
		that.countdown--
		that.schedule(that.opts.TickInterval, that.tick)

		return
	}

	that.phase = entity.PhasePlaying
	that.started = true
	that.broadcast(entity.NewUpdateEvent(that.game.Board, that.game.Turn, nil))

	that.logger.Info("game is playing", "method", "tick")
	that.record()
}

// schedule replaces any pending timer with fn after d. A callback only runs
// if no other schedule or dissolve happened since; fn runs with mu held.
func (that *Session) schedule(d time.Duration, fn func()) {
	that.stopTimer()
	that.generation++
	generation := that.generation

	that.timer = that.clock.AfterFunc(d, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if generation != that.generation || that.phase == entity.PhaseDissolved {
			return
		}

		that.timer = nil
		fn()
	})
}

func (that *Session) stopTimer() {
	if that.timer == nil {
		return
	}

	that.timer.Stop()
	that.timer = nil
}
