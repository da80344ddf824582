package compute

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/outbreak/components"
)

func board(w, h int) ([]components.CellState, components.BoardConstants) {
	return make([]components.CellState, w*h), components.NewBoardConstants(w, h)
}

func step(src []components.CellState, consts components.BoardConstants) []components.CellState {
	dst := make([]components.CellState, len(src))
	Step(src, dst, consts, 0, int(consts.Height))
	return dst
}

func randomBoard(rng *rand.Rand, w, h int) ([]components.CellState, components.BoardConstants) {
	cells, consts := board(w, h)
	for i := range cells {
		c := components.CellState{
			Altitude:    rng.Int32N(120) - 60,
			Temperature: rng.Int32N(200) - 100,
		}
		switch r := rng.Float64(); {
		case r < 0.3:
			c = c.WithOccupant(components.StatusHuman, 50+rng.Int32N(50))
		case r < 0.35:
			c = c.WithOccupant(components.StatusZombie, 75+rng.Int32N(125))
		}
		cells[i] = c
	}
	return cells, consts
}

func TestStep_CopiesTerrain(t *testing.T) {
	src, consts := board(3, 3)
	for i := range src {
		src[i].Altitude = int32(i * 3)
		src[i].Temperature = int32(-i)
		src[i].EdgeDistance = int32(i % 2)
		src[i].NeighborsCount = 8
	}
	dst := step(src, consts)
	for i := range dst {
		if dst[i].Altitude != src[i].Altitude || dst[i].Temperature != src[i].Temperature ||
			dst[i].EdgeDistance != src[i].EdgeDistance || dst[i].NeighborsCount != src[i].NeighborsCount {
			t.Errorf("cell %d: terrain changed: got %+v, want %+v", i, dst[i], src[i])
		}
		if dst[i].Occupied() {
			t.Errorf("cell %d: empty board produced occupant %v", i, dst[i].Status)
		}
	}
}

func TestStep_HumanGrowthAndScent(t *testing.T) {
	src, consts := board(3, 3)
	src[4] = src[4].WithOccupant(components.StatusHuman, 50)
	src[4].SmellHuman = 50

	dst := step(src, consts)
	if got := dst[4].Population; got != 51 {
		t.Errorf("population: got %d, want 51", got)
	}
	if got := dst[4].SmellHuman; got != 50 {
		t.Errorf("own scent: got %d, want 50", got)
	}
	if got, want := dst[0].SmellHuman, int32(50-ScentDecay); got != want {
		t.Errorf("neighbour scent: got %d, want %d", got, want)
	}
}

func TestStep_GrowthCapped(t *testing.T) {
	src, consts := board(1, 1)
	src[0] = src[0].WithOccupant(components.StatusHuman, MaxPopulation)
	dst := step(src, consts)
	if got := dst[0].Population; got != MaxPopulation {
		t.Errorf("got %d, want %d", got, MaxPopulation)
	}
}

func TestStep_Infection(t *testing.T) {
	src, consts := board(2, 1)
	src[0] = src[0].WithOccupant(components.StatusHuman, 3)
	src[1] = src[1].WithOccupant(components.StatusZombie, 20)

	dst := step(src, consts)
	if dst[0].Status != components.StatusZombie {
		t.Fatalf("status: got %v, want zombie", dst[0].Status)
	}
	if got := dst[0].Population; got != 3 {
		t.Errorf("infected population: got %d, want 3", got)
	}
}

func TestStep_Combat(t *testing.T) {
	src, consts := board(2, 1)
	src[0] = src[0].WithOccupant(components.StatusHuman, 100)
	src[1] = src[1].WithOccupant(components.StatusZombie, 5)

	dst := step(src, consts)
	if got, want := dst[0].Population, int32(100-2); got != want {
		t.Errorf("humans: got %d, want %d", got, want)
	}
	if dst[1].Occupied() {
		t.Errorf("zombies: got %v/%d, want empty", dst[1].Status, dst[1].Population)
	}
}

func TestStep_HeatDecay(t *testing.T) {
	src, consts := board(1, 1)
	src[0] = src[0].WithOccupant(components.StatusZombie, 10)
	src[0].Temperature = HeatLimit + 1
	dst := step(src, consts)
	if got := dst[0].Population; got != 9 {
		t.Errorf("got %d, want 9", got)
	}
}

func TestStep_Migration(t *testing.T) {
	tests := []struct {
		name      string
		altitude  int32
		wantLeft  int32
		wantRight int32
	}{
		{"flat", 0, 21, 20},
		{"cliff", MaxClimb + 1, 41, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, consts := board(2, 1)
			src[0] = src[0].WithOccupant(components.StatusHuman, 40)
			src[0].DirectionX = 1
			src[1].Altitude = tt.altitude

			dst := step(src, consts)
			if got := dst[0].Population; got != tt.wantLeft {
				t.Errorf("donor: got %d, want %d", got, tt.wantLeft)
			}
			if got := dst[1].Population; got != tt.wantRight {
				t.Errorf("receiver: got %d, want %d", got, tt.wantRight)
			}
		})
	}
}

func TestStep_MigrationStrongestClaimant(t *testing.T) {
	src, consts := board(3, 1)
	src[0] = src[0].WithOccupant(components.StatusHuman, 30)
	src[0].DirectionX = 1
	src[2] = src[2].WithOccupant(components.StatusZombie, 60)
	src[2].DirectionX = -1

	dst := step(src, consts)
	if dst[1].Status != components.StatusZombie || dst[1].Population != 30 {
		t.Errorf("receiver: got %v/%d, want zombie/30", dst[1].Status, dst[1].Population)
	}
	if got := dst[0].Population; got != 31 {
		t.Errorf("losing claimant keeps its population: got %d, want 31", got)
	}
}

func TestStep_ZombieChasesScent(t *testing.T) {
	src, consts := board(3, 1)
	src[0] = src[0].WithOccupant(components.StatusZombie, 50)
	src[0].SmellHuman = 10
	src[1].SmellHuman = 30
	src[2].SmellHuman = 40

	dst := step(src, consts)
	if dst[0].DirectionX != 1 || dst[0].DirectionY != 0 {
		t.Errorf("direction: got (%d,%d), want (1,0)", dst[0].DirectionX, dst[0].DirectionY)
	}
}

func TestStep_HumanFleesWithRunnerUp(t *testing.T) {
	src, consts := board(3, 2)
	// (1,0) human, zombie scent rising to the right.
	src[1] = src[1].WithOccupant(components.StatusHuman, 50)
	src[1].SmellZombie = 20
	src[0].SmellZombie = 5
	src[2].SmellZombie = 40
	src[3].SmellZombie = 10
	src[4].SmellZombie = 30
	src[5].SmellZombie = 50

	dst := step(src, consts)
	c := dst[1]
	if c.DirectionX != -1 || c.DirectionY != 0 {
		t.Errorf("direction: got (%d,%d), want (-1,0)", c.DirectionX, c.DirectionY)
	}
	if c.SecondDirectionX != -1 || c.SecondDirectionY != 1 {
		t.Errorf("second direction: got (%d,%d), want (-1,1)", c.SecondDirectionX, c.SecondDirectionY)
	}
}

func TestStep_BandsMatchFullPass(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	src, consts := randomBoard(rng, 17, 13)
	full := step(src, consts)

	banded := make([]components.CellState, len(src))
	for y := 0; y < int(consts.Height); y += 4 {
		Step(src, banded, consts, y, min(y+4, int(consts.Height)))
	}
	for i := range full {
		if full[i] != banded[i] {
			t.Fatalf("cell %d: banded %+v, full %+v", i, banded[i], full[i])
		}
	}
}

func TestStep_KeepsCellsConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	a, consts := randomBoard(rng, 24, 24)
	b := make([]components.CellState, len(a))
	for tick := 0; tick < 50; tick++ {
		Step(a, b, consts, 0, int(consts.Height))
		for i, c := range b {
			if !c.Consistent() {
				t.Fatalf("tick %d cell %d: inconsistent %+v", tick, i, c)
			}
		}
		a, b = b, a
	}
}
