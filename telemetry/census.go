package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/outbreak/components"
)

// Census counts occupants on one board generation.
type Census struct {
	HumanCells  int
	ZombieCells int
	EmptyCells  int
	HumanPop    int64
	ZombiePop   int64

	// Per-cell population samples, used for distribution stats.
	humanSizes  []float64
	zombieSizes []float64
}

// TakeCensus scans cells. The returned census reuses buf's sample storage
// when buf is non-nil.
func TakeCensus(cells []components.CellState, buf *Census) Census {
	var c Census
	if buf != nil {
		c.humanSizes = buf.humanSizes[:0]
		c.zombieSizes = buf.zombieSizes[:0]
	}
	for i := range cells {
		cell := &cells[i]
		switch cell.Status {
		case components.StatusHuman:
			c.HumanCells++
			c.HumanPop += int64(cell.Population)
			c.humanSizes = append(c.humanSizes, float64(cell.Population))
		case components.StatusZombie:
			c.ZombieCells++
			c.ZombiePop += int64(cell.Population)
			c.zombieSizes = append(c.zombieSizes, float64(cell.Population))
		default:
			c.EmptyCells++
		}
	}
	if buf != nil {
		buf.humanSizes = c.humanSizes
		buf.zombieSizes = c.zombieSizes
	}
	return c
}

// HumanShare is the fraction of the living population that is human.
func (c Census) HumanShare() float64 {
	total := c.HumanPop + c.ZombiePop
	if total == 0 {
		return 0
	}
	return float64(c.HumanPop) / float64(total)
}

// Distribution summarises a sample of values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Describe computes mean, standard deviation and empirical quantiles.
// values is sorted in place.
func Describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}
	sort.Float64s(values)
	d := Distribution{
		Mean: stat.Mean(values, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, values, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, values, nil),
	}
	if n > 1 {
		d.Std = stat.StdDev(values, nil)
	}
	return d
}
