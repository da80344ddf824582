package mapgen

import (
	"slices"
	"testing"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

func init() {
	config.MustInit("")
}

func defaultParams() Params {
	return ParamsFromConfig(config.Cfg().Seed)
}

func TestGenerateInitialGrid_Length(t *testing.T) {
	for _, dims := range [][2]int{{4, 4}, {1, 7}, {13, 5}} {
		cells := GenerateInitialGrid(dims[0], dims[1], defaultParams())
		if len(cells) != dims[0]*dims[1] {
			t.Errorf("%v: got %d cells", dims, len(cells))
		}
	}
	if cells := GenerateInitialGrid(0, 4, defaultParams()); cells != nil {
		t.Errorf("zero width: got %d cells", len(cells))
	}
}

func TestGenerateInitialGrid_Deterministic(t *testing.T) {
	p := defaultParams()
	a := GenerateInitialGrid(32, 32, p)
	b := GenerateInitialGrid(32, 32, p)
	if !slices.Equal(a, b) {
		t.Error("same params produced different grids")
	}
	p.Seed++
	if c := GenerateInitialGrid(32, 32, p); slices.Equal(a, c) {
		t.Error("different seeds produced identical grids")
	}
}

func TestGenerateInitialGrid_Geometry(t *testing.T) {
	const w, h = 5, 4
	cells := GenerateInitialGrid(w, h, defaultParams())
	at := func(x, y int) components.CellState { return cells[y*w+x] }

	tests := []struct {
		x, y      int
		neighbors int32
		edge      int32
	}{
		{0, 0, 3, 0},
		{4, 3, 3, 0},
		{2, 0, 5, 0},
		{0, 2, 5, 0},
		{1, 1, 8, 1},
		{2, 2, 8, 1},
	}
	for _, tt := range tests {
		c := at(tt.x, tt.y)
		if c.NeighborsCount != tt.neighbors {
			t.Errorf("(%d,%d) neighbors: got %d, want %d", tt.x, tt.y, c.NeighborsCount, tt.neighbors)
		}
		if c.EdgeDistance != tt.edge {
			t.Errorf("(%d,%d) edge distance: got %d, want %d", tt.x, tt.y, c.EdgeDistance, tt.edge)
		}
	}
}

func TestGenerateInitialGrid_Populations(t *testing.T) {
	p := defaultParams()
	p.HumanProbability, p.ZombieProbability = 0.5, 0.25
	cells := GenerateInitialGrid(64, 64, p)

	var humans, zombies int
	for i, c := range cells {
		if !c.Consistent() {
			t.Fatalf("cell %d inconsistent: %+v", i, c)
		}
		switch c.Status {
		case components.StatusHuman:
			humans++
			if c.Population < int32(p.HumanMin) || c.Population >= int32(p.HumanMax) {
				t.Errorf("cell %d: human population %d outside [%d,%d)", i, c.Population, p.HumanMin, p.HumanMax)
			}
		case components.StatusZombie:
			zombies++
			if c.Population < int32(p.ZombieMin) || c.Population >= int32(p.ZombieMax) {
				t.Errorf("cell %d: zombie population %d outside [%d,%d)", i, c.Population, p.ZombieMin, p.ZombieMax)
			}
		}
	}
	if humans == 0 || zombies == 0 || humans < zombies {
		t.Errorf("humans %d zombies %d", humans, zombies)
	}
}

func TestGenerateInitialGrid_NoOccupants(t *testing.T) {
	p := defaultParams()
	p.HumanProbability, p.ZombieProbability = 0, 0
	for i, c := range GenerateInitialGrid(16, 16, p) {
		if c.Occupied() {
			t.Fatalf("cell %d occupied with zero probabilities", i)
		}
	}
}

func TestTerrainGenerator_Range(t *testing.T) {
	g := NewTerrainGenerator(42, 5, 100, 20)
	for y := 0; y < 50; y += 7 {
		for x := 0; x < 50; x += 3 {
			if a := g.Altitude(x, y); a < -1 || a > 1 {
				t.Errorf("altitude(%d,%d) = %v", x, y, a)
			}
			if tc := g.Temperature(x, y); tc < -1 || tc > 1 {
				t.Errorf("temperature(%d,%d) = %v", x, y, tc)
			}
		}
	}
}
