package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
)

// BoardRenderer draws the displayed board generation as a texture with one
// texel per cell.
type BoardRenderer struct {
	Palette Palette

	boardTex    rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewBoardRenderer creates a board renderer using palette.
func NewBoardRenderer(palette Palette) *BoardRenderer {
	return &BoardRenderer{Palette: palette}
}

// Init creates the board texture (must be called after raylib window is created).
func (r *BoardRenderer) Init(cols, rows int) {
	if r.initialized {
		return
	}

	r.texW = cols
	r.texH = rows
	r.pixels = make([]color.RGBA, cols*rows)

	img := rl.GenImageColor(cols, rows, rl.Black)
	r.boardTex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.boardTex, rl.FilterPoint)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update uploads a board generation to the texture.
func (r *BoardRenderer) Update(cells []components.CellState, cols, rows int) {
	if !r.initialized {
		r.Init(cols, rows)
	}
	if len(cells) != r.texW*r.texH {
		return
	}
	r.Palette.Fill(r.pixels, cells)
	rl.UpdateTexture(r.boardTex, r.pixels)
}

// Draw renders the board through the camera and outlines the hovered cell.
func (r *BoardRenderer) Draw(cam *camera.Camera, hoverX, hoverY int, hover bool) {
	if !r.initialized {
		return
	}

	x, y, w, h := cam.BoardRect()
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(r.boardTex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLinesEx(dstRect, 1, rl.DarkGray)

	if hover {
		cx, cy, cw, ch := cam.CellRect(hoverX, hoverY)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: cx, Y: cy, Width: cw, Height: ch}, 1, rl.Yellow)
	}
}

// Unload frees GPU resources.
func (r *BoardRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.boardTex)
	r.initialized = false
}
