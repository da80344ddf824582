package game

import "fmt"

// Phase is the application state around the engine. The engine only
// dispatches while the game is running or single-stepping.
type Phase int

const (
	PhaseSplash Phase = iota
	PhaseRunning
	PhasePaused
)

// String returns the display name for a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseSplash:
		return "splash"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

func (g *Game) setPhase(p Phase) {
	if p == g.phase && g.engine.Running() == (p == PhaseRunning) {
		return
	}
	g.log.Info("phase", "from", g.phase.String(), "to", p.String())
	g.phase = p
	g.engine.SetRunning(p == PhaseRunning)
}

// Start leaves the splash screen.
func (g *Game) Start() {
	if g.phase == PhaseSplash {
		g.setPhase(PhaseRunning)
	}
}

// TogglePause switches between running and paused.
func (g *Game) TogglePause() {
	switch g.phase {
	case PhaseRunning:
		g.setPhase(PhasePaused)
	case PhasePaused:
		g.setPhase(PhaseRunning)
	}
}

// StepOnce requests a single dispatch while paused.
func (g *Game) StepOnce() {
	if g.phase == PhasePaused {
		g.engine.Step()
	}
}

// Reseed replaces the board with a freshly generated one from a new seed.
func (g *Game) Reseed() error {
	seed := g.rng.Int64()
	if err := g.engine.Reseed(g.generate(seed)); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	g.seed = seed
	g.log.Info("reseeded", "seed", seed)
	g.refreshSnapshot()
	return nil
}
