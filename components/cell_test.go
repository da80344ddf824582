package components

import (
	"fmt"
	"testing"
	"unsafe"
)

func TestCellStateLayout(t *testing.T) {
	if got := unsafe.Sizeof(CellState{}); got != CellSize {
		t.Fatalf("CellState size = %d, want %d", got, CellSize)
	}
	if got := unsafe.Offsetof(CellState{}.Status); got != CellSize-4 {
		t.Errorf("Status offset = %d, want %d", got, CellSize-4)
	}
	if got := unsafe.Sizeof(BoardConstants{}); got != 16 {
		t.Errorf("BoardConstants size = %d, want 16", got)
	}
}

func TestCellStateConsistent(t *testing.T) {
	tests := []struct {
		name string
		cell CellState
		want bool
	}{
		{"zero value", CellState{}, true},
		{"human with pop", CellState{Status: StatusHuman, Population: 10}, true},
		{"zombie with pop", CellState{Status: StatusZombie, Population: 1}, true},
		{"empty with pop", CellState{Status: StatusEmpty, Population: 3}, false},
		{"human without pop", CellState{Status: StatusHuman}, false},
		{"negative pop", CellState{Status: StatusZombie, Population: -1}, false},
		{"unknown status", CellState{Status: 7, Population: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithOccupantKeepsTerrain(t *testing.T) {
	base := CellState{Altitude: 12, Temperature: -3, EdgeDistance: 2, NeighborsCount: 8}

	c := base.WithOccupant(StatusHuman, 100)
	if c.Altitude != 12 || c.Temperature != -3 || c.EdgeDistance != 2 || c.NeighborsCount != 8 {
		t.Errorf("terrain fields changed: %+v", c)
	}
	if c.Status != StatusHuman || c.Population != 100 {
		t.Errorf("occupant = %v/%d, want human/100", c.Status, c.Population)
	}

	cleared := c.WithOccupant(StatusZombie, 0)
	if cleared.Status != StatusEmpty || cleared.Population != 0 {
		t.Errorf("zero population should clear, got %v/%d", cleared.Status, cleared.Population)
	}
	if !cleared.Consistent() {
		t.Error("cleared cell should be consistent")
	}
}

func TestPlace(t *testing.T) {
	if c := PlaceHuman(100); c.Status != StatusHuman || c.Population != 100 {
		t.Errorf("PlaceHuman = %+v", c)
	}
	if c := PlaceZombie(5); c.Status != StatusZombie || c.Population != 5 {
		t.Errorf("PlaceZombie = %+v", c)
	}
	if c := Place(StatusEmpty, 40); c.Occupied() || c.Population != 0 {
		t.Errorf("Place(empty) = %+v, want empty", c)
	}
}

func TestFieldValueCoversDescriptors(t *testing.T) {
	c := CellState{Status: StatusZombie, Population: 4, DirectionX: -1, DirectionY: 1}
	for _, d := range CellFieldDescriptors() {
		args, ok := c.FieldValue(d.ID)
		if !ok {
			t.Errorf("descriptor %q has no value", d.ID)
			continue
		}
		if s := fmt.Sprintf(d.Format, args...); s == "" {
			t.Errorf("descriptor %q formatted to empty string", d.ID)
		}
	}
	if _, ok := c.FieldValue("nope"); ok {
		t.Error("unknown field should not resolve")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusEmpty, StatusHuman, StatusZombie} {
		got, ok := ParseStatus(s.String())
		if !ok || got != s {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v", s.String(), got, ok, s)
		}
	}
	if _, ok := ParseStatus("vampire"); ok {
		t.Error("ParseStatus accepted an unknown name")
	}
}
