package systems

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("systems: tick period must be positive")

// Gate is a fixed-period timer that fires at most once per scheduling pass.
// When a pass arrives late by several periods, only one fire is produced and
// the whole missed periods are dropped.
type Gate struct {
	period  time.Duration
	acc     time.Duration
	fired   bool
	trigger bool
	fires   int
	dropped int
}

// NewGate creates a gate with the given period.
func NewGate(period time.Duration) (*Gate, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, period)
	}
	return &Gate{period: period}, nil
}

// Advance accumulates elapsed time and decides whether this pass fires.
// A fire mark left unconsumed by the previous pass is cleared.
func (g *Gate) Advance(elapsed time.Duration) {
	g.fired = false
	if elapsed > 0 {
		g.acc += elapsed
	}

	fire := g.trigger
	g.trigger = false
	if g.acc >= g.period {
		g.acc -= g.period
		fire = true
		if g.acc >= g.period {
			n := g.acc / g.period
			g.dropped += int(n)
			g.acc -= n * g.period
		}
	}
	if fire {
		g.fired = true
		g.fires++
	}
}

// Trigger makes the next Advance fire regardless of accumulated time.
func (g *Gate) Trigger() {
	g.trigger = true
}

// Fired reports whether the current pass fired without consuming it.
func (g *Gate) Fired() bool {
	return g.fired
}

// ConsumeFired reports whether the current pass fired and clears the mark.
func (g *Gate) ConsumeFired() bool {
	f := g.fired
	g.fired = false
	return f
}

func (g *Gate) Period() time.Duration { return g.period }

// HeadlessCadence splits one period into two pass durations. The first pass
// never fires, so a pending edit always gets a pass without compute.
func HeadlessCadence(period time.Duration) [2]time.Duration {
	half := period / 2
	return [2]time.Duration{half, period - half}
}

// Fires counts passes that fired.
func (g *Gate) Fires() int { return g.fires }

// Dropped counts whole periods skipped after starvation.
func (g *Gate) Dropped() int { return g.dropped }
