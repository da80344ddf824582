// Package camera provides a 2D camera that maps the screen onto board cells.
package camera

import "math"

// Camera controls the viewport onto the board. World coordinates are board
// cells scaled by CellSize pixels; the board does not wrap, so the camera
// centre is clamped to keep the view over the board where possible.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Board size in cells and the world size of one cell
	Cols, Rows int
	CellSize   float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a cols x rows board at 1:1 zoom.
func New(viewportW, viewportH float32, cols, rows int, cellSize float32) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Cols:      cols,
		Rows:      rows,
		CellSize:  cellSize,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// WorldW returns the board width in world units.
func (c *Camera) WorldW() float32 { return float32(c.Cols) * c.CellSize }

// WorldH returns the board height in world units.
func (c *Camera) WorldH() float32 { return float32(c.Rows) * c.CellSize }

// fitZoom is the zoom at which the whole board fits the viewport, capped at 1.
func (c *Camera) fitZoom() float32 {
	z := min(c.ViewportW/c.WorldW(), c.ViewportH/c.WorldH())
	return min(z, 1)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScreenToCell returns the board cell under a screen point.
// ok is false when the point is off the board.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	fx := math.Floor(float64(wx / c.CellSize))
	fy := math.Floor(float64(wy / c.CellSize))
	if fx < 0 || fy < 0 || fx >= float64(c.Cols) || fy >= float64(c.Rows) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// BoardRect returns the board's screen rectangle as (x, y, width, height).
func (c *Camera) BoardRect() (x, y, w, h float32) {
	x, y = c.WorldToScreen(0, 0)
	return x, y, c.WorldW() * c.Zoom, c.WorldH() * c.Zoom
}

// CellRect returns a cell's screen rectangle as (x, y, width, height).
func (c *Camera) CellRect(cx, cy int) (x, y, w, h float32) {
	x, y = c.WorldToScreen(float32(cx)*c.CellSize, float32(cy)*c.CellSize)
	s := c.CellSize * c.Zoom
	return x, y, s, s
}

// VisibleCells returns the half-open cell range [x0,x1) x [y0,y1) covered
// by the viewport, clipped to the board.
func (c *Camera) VisibleCells() (x0, y0, x1, y1 int) {
	minX, minY := c.ScreenToWorld(0, 0)
	maxX, maxY := c.ScreenToWorld(c.ViewportW, c.ViewportH)
	x0 = clampInt(int(math.Floor(float64(minX/c.CellSize))), 0, c.Cols)
	y0 = clampInt(int(math.Floor(float64(minY/c.CellSize))), 0, c.Rows)
	x1 = clampInt(int(math.Ceil(float64(maxX/c.CellSize))), 0, c.Cols)
	y1 = clampInt(int(math.Ceil(float64(maxY/c.CellSize))), 0, c.Rows)
	return x0, y0, x1, y1
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the board and zooms it to fit.
func (c *Camera) Reset() {
	c.X = c.WorldW() / 2
	c.Y = c.WorldH() / 2
	c.Zoom = c.MinZoom
}

// clampCenter keeps the board edge from moving past the viewport centre line
// on each axis. When the view is wider than the board the board is centred.
func (c *Camera) clampCenter() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.WorldW())
	c.Y = clampAxis(c.Y, halfH, c.WorldH())
}

func clampAxis(centre, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(centre, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
