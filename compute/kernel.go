package compute

import "github.com/pthm-cable/outbreak/components"

// Update rule tuning. The OpenCL source receives the same values as -D defines.
const (
	ScentDecay       = 8   // scent lost per cell of distance
	MaxClimb         = 40  // largest altitude step an occupant can take
	MigrateThreshold = 20  // minimum population that can split into an empty cell
	CrowdThreshold   = 120 // humans spread out above this when no zombie is near
	InfectDivisor    = 4   // adjacent zombies per infected human, rounded up
	KillDivisor      = 8   // adjacent humans per destroyed zombie
	HeatLimit        = 60  // zombies decay on cells hotter than this
	MaxPopulation    = 200 // human growth cap
)

// neighbourOffsets is the fixed scan order; ties resolve to the earliest entry.
var neighbourOffsets = [8][2]int32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Step runs the update kernel for rows [y0, y1) reading src and writing dst.
// Every destination cell depends only on src, so disjoint row bands can run
// concurrently.
func Step(src, dst []components.CellState, consts components.BoardConstants, y0, y1 int) {
	w := consts.Width
	for y := int32(y0); y < int32(y1); y++ {
		for x := int32(0); x < w; x++ {
			dst[y*w+x] = stepCell(src, consts.Width, consts.Height, x, y)
		}
	}
}

func inBounds(x, y, w, h int32) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

func canMove(from, to *components.CellState) bool {
	d := from.Altitude - to.Altitude
	return d <= MaxClimb && d >= -MaxClimb
}

// claimant returns the index of the neighbour that migrates into the empty
// cell at (x, y) this tick, or -1. Both the donor and the receiver evaluate
// this, so population is conserved.
func claimant(src []components.CellState, w, h, x, y int32) int32 {
	target := &src[y*w+x]
	best := int32(-1)
	var bestPop int32
	for _, o := range neighbourOffsets {
		nx, ny := x+o[0], y+o[1]
		if !inBounds(nx, ny, w, h) {
			continue
		}
		n := &src[ny*w+nx]
		if !n.Occupied() || n.Population < MigrateThreshold {
			continue
		}
		if nx+n.DirectionX != x || ny+n.DirectionY != y {
			continue
		}
		if !canMove(n, target) {
			continue
		}
		if n.Population > bestPop {
			best = ny*w + nx
			bestPop = n.Population
		}
	}
	return best
}

// steer picks the two reachable neighbours with the lowest score that strictly
// improve on the cell's own score.
func steer(src []components.CellState, w, h, x, y int32, score func(*components.CellState) int32) (d1, d2 [2]int32) {
	self := &src[y*w+x]
	best, second := score(self), score(self)
	for _, o := range neighbourOffsets {
		nx, ny := x+o[0], y+o[1]
		if !inBounds(nx, ny, w, h) {
			continue
		}
		n := &src[ny*w+nx]
		if !canMove(self, n) {
			continue
		}
		s := score(n)
		if s < best {
			second, d2 = best, d1
			best, d1 = s, o
		} else if s < second {
			second, d2 = s, o
		}
	}
	return d1, d2
}

func fleeScore(c *components.CellState) int32   { return c.SmellZombie }
func spreadScore(c *components.CellState) int32 { return c.SmellHuman }
func chaseScore(c *components.CellState) int32  { return -c.SmellHuman }

func stepCell(src []components.CellState, w, h, x, y int32) components.CellState {
	idx := y*w + x
	c := src[idx]
	out := c

	var maxHuman, maxZombie, humansAdj, zombiesAdj int32
	for _, o := range neighbourOffsets {
		nx, ny := x+o[0], y+o[1]
		if !inBounds(nx, ny, w, h) {
			continue
		}
		n := &src[ny*w+nx]
		maxHuman = max(maxHuman, n.SmellHuman)
		maxZombie = max(maxZombie, n.SmellZombie)
		switch n.Status {
		case components.StatusHuman:
			humansAdj += n.Population
		case components.StatusZombie:
			zombiesAdj += n.Population
		}
	}
	out.SmellHuman = max(0, maxHuman-ScentDecay)
	out.SmellZombie = max(0, maxZombie-ScentDecay)
	switch c.Status {
	case components.StatusHuman:
		out.SmellHuman = max(out.SmellHuman, c.Population)
	case components.StatusZombie:
		out.SmellZombie = max(out.SmellZombie, c.Population)
	}

	var d1, d2 [2]int32
	switch {
	case c.Status == components.StatusHuman && c.SmellZombie > 0:
		d1, d2 = steer(src, w, h, x, y, fleeScore)
	case c.Status == components.StatusHuman && c.Population >= CrowdThreshold:
		d1, d2 = steer(src, w, h, x, y, spreadScore)
	case c.Status == components.StatusZombie && c.SmellHuman > 0:
		d1, d2 = steer(src, w, h, x, y, chaseScore)
	}
	out.DirectionX, out.DirectionY = d1[0], d1[1]
	out.SecondDirectionX, out.SecondDirectionY = d2[0], d2[1]

	if c.Status == components.StatusEmpty {
		k := claimant(src, w, h, x, y)
		if k < 0 {
			return out.WithOccupant(components.StatusEmpty, 0)
		}
		return out.WithOccupant(src[k].Status, src[k].Population/2)
	}

	status, pop := c.Status, c.Population
	if c.DirectionX != 0 || c.DirectionY != 0 {
		tx, ty := x+c.DirectionX, y+c.DirectionY
		if inBounds(tx, ty, w, h) && !src[ty*w+tx].Occupied() && claimant(src, w, h, tx, ty) == idx {
			pop -= c.Population / 2
		}
	}

	switch status {
	case components.StatusHuman:
		if zombiesAdj > 0 {
			infected := min((zombiesAdj+InfectDivisor-1)/InfectDivisor, pop)
			pop -= infected
			if pop == 0 {
				status, pop = components.StatusZombie, infected
			}
		} else if pop < MaxPopulation {
			pop++
		}
	case components.StatusZombie:
		pop -= humansAdj / KillDivisor
		if c.Temperature > HeatLimit {
			pop--
		}
	}
	return out.WithOccupant(status, pop)
}
