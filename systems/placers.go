package systems

import (
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
)

// PlacerSystem drives automated control-path agents. Each agent submits an
// edit at its cell when its cooldown expires, then wanders one cell.
// Agents share the single edit slot, so agents firing in the same pass
// overwrite each other and only the last submission lands.
type PlacerSystem struct {
	mapper *ecs.Map2[components.PlacerPos, components.Placer]
	filter *ecs.Filter2[components.PlacerPos, components.Placer]
	submit *Submitter
	rng    *rand.Rand
	log    *slog.Logger
	count  int
}

// NewPlacerSystem creates a placer system.
func NewPlacerSystem(w *ecs.World, submit *Submitter, rng *rand.Rand, log *slog.Logger) *PlacerSystem {
	if log == nil {
		log = slog.Default()
	}
	return &PlacerSystem{
		mapper: ecs.NewMap2[components.PlacerPos, components.Placer](w),
		filter: ecs.NewFilter2[components.PlacerPos, components.Placer](w),
		submit: submit,
		rng:    rng,
		log:    log,
	}
}

// Spawn adds n agents at random cells with staggered cooldowns.
func (s *PlacerSystem) Spawn(n int, status components.Status, population int32, interval float32) {
	w, h := s.submit.Bounds()
	for i := 0; i < n; i++ {
		pos := components.PlacerPos{X: s.rng.IntN(w), Y: s.rng.IntN(h)}
		p := components.Placer{
			Status:     status,
			Population: population,
			Interval:   interval,
			Cooldown:   interval * s.rng.Float32(),
		}
		s.mapper.NewEntity(&pos, &p)
		s.count++
	}
	s.log.Info("placers spawned", "count", n, "status", status, "population", population)
}

// Count returns the number of agents.
func (s *PlacerSystem) Count() int { return s.count }

// Update advances cooldowns by dt seconds and submits due edits. Terrain for
// the edited cell is taken from snapshot when it covers the board.
func (s *PlacerSystem) Update(dt float32, snapshot []components.CellState) int {
	w, h := s.submit.Bounds()
	submitted := 0

	query := s.filter.Query()
	for query.Next() {
		pos, p := query.Get()

		p.Cooldown -= dt
		if p.Cooldown > 0 {
			continue
		}
		p.Cooldown = p.Interval

		brush := Brush{Status: p.Status, Population: p.Population}
		if err := brush.PaintAt(s.submit, snapshot, pos.X, pos.Y); err != nil {
			s.log.Warn("placer edit rejected", "x", pos.X, "y", pos.Y, "error", err)
			continue
		}
		p.Placed++
		submitted++

		pos.X = clamp(pos.X+s.rng.IntN(3)-1, 0, w-1)
		pos.Y = clamp(pos.Y+s.rng.IntN(3)-1, 0, h-1)
	}
	return submitted
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
