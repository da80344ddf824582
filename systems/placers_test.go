package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/components"
)

func TestPlacerSystem_SubmitsWhenDue(t *testing.T) {
	world := ecs.NewWorld()
	var slot EditSlot
	ps := NewPlacerSystem(world, NewSubmitter(&slot, 8, 8), rand.New(rand.NewPCG(1, 1)), nil)
	ps.Spawn(1, components.StatusZombie, 30, 0.5)

	snapshot := make([]components.CellState, 64)
	for i := range snapshot {
		snapshot[i].Altitude = 17
	}

	if n := ps.Update(0.5, snapshot); n != 1 {
		t.Fatalf("submitted %d, want 1", n)
	}
	e, ok := slot.Pending()
	if !ok {
		t.Fatal("no pending edit")
	}
	if e.Cell.Status != components.StatusZombie || e.Cell.Population != 30 {
		t.Errorf("cell %v/%d, want zombie/30", e.Cell.Status, e.Cell.Population)
	}
	if e.Cell.Altitude != 17 {
		t.Errorf("terrain not preserved: altitude %d", e.Cell.Altitude)
	}

	// Cooldown restarts at the interval.
	slot.p.Store(nil)
	if n := ps.Update(0.25, snapshot); n != 0 {
		t.Errorf("submitted %d before the interval elapsed", n)
	}
	if n := ps.Update(0.25, snapshot); n != 1 {
		t.Errorf("submitted %d after the interval, want 1", n)
	}
}

func TestPlacerSystem_StaysOnBoard(t *testing.T) {
	world := ecs.NewWorld()
	var slot EditSlot
	ps := NewPlacerSystem(world, NewSubmitter(&slot, 3, 2), rand.New(rand.NewPCG(5, 9)), nil)
	ps.Spawn(4, components.StatusHuman, 10, 0.01)
	if ps.Count() != 4 {
		t.Fatalf("count %d, want 4", ps.Count())
	}

	total := 0
	for i := 0; i < 200; i++ {
		total += ps.Update(0.01, nil)
	}
	if total != 800 {
		t.Errorf("submitted %d edits, want 800 (every agent every pass)", total)
	}

	filter := ecs.NewFilter2[components.PlacerPos, components.Placer](world)
	query := filter.Query()
	for query.Next() {
		pos, p := query.Get()
		if pos.X < 0 || pos.X >= 3 || pos.Y < 0 || pos.Y >= 2 {
			t.Errorf("placer wandered off the board: %+v", *pos)
		}
		if p.Placed != 200 {
			t.Errorf("placed %d, want 200", p.Placed)
		}
	}
}
