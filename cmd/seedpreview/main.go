// Seed preview tool - interactive initial board generation with sliders.
//
// Usage: go run ./cmd/seedpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/mapgen"
	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := mapgen.ParamsFromConfig(cfg.Seed)
	if defaults.Seed == 0 {
		defaults.Seed = 12345
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Seed Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	palette := renderer.Palette{
		Mode:             renderer.ViewOccupants,
		AltitudeRange:    float32(params.AltitudeRange),
		TemperatureRange: float32(params.TemperatureRange),
	}
	pixels := make([]color.RGBA, gridSize*gridSize)
	var cells []components.CellState
	var census telemetry.Census

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			cells = mapgen.GenerateInitialGrid(gridSize, gridSize, params)
			census = telemetry.TakeCensus(cells, &census)
			needsRegen = false
		}
		palette.Fill(pixels, cells)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Humans: %d cells, %d pop", census.HumanCells, census.HumanPop), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Zombies: %d cells, %d pop", census.ZombieCells, census.ZombiePop), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("View: %s", palette.Mode), 15, statsY+40, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Seed Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		octaves := float32(params.Octaves)
		if slider(&panelY, panelX, "Octaves (terrain detail)", "%.0f", &octaves, 1, 8) {
			params.Octaves = int(octaves + 0.5)
			needsRegen = true
		}

		baseLevel := float32(params.BaseLevel)
		if slider(&panelY, panelX, "Base level (altitude feature size)", "%.0f", &baseLevel, 10, 400) {
			params.BaseLevel = float64(baseLevel)
			needsRegen = true
		}

		tempScale := float32(params.TemperatureScale)
		if slider(&panelY, panelX, "Temperature scale (feature size)", "%.0f", &tempScale, 2, 100) {
			params.TemperatureScale = float64(tempScale)
			needsRegen = true
		}

		humanProb := float32(params.HumanProbability)
		if slider(&panelY, panelX, "Human probability", "%.3f", &humanProb, 0, 0.5) {
			params.HumanProbability = float64(humanProb)
			needsRegen = true
		}

		zombieProb := float32(params.ZombieProbability)
		if slider(&panelY, panelX, "Zombie probability", "%.3f", &zombieProb, 0, 0.1) {
			params.ZombieProbability = float64(zombieProb)
			needsRegen = true
		}

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = rand.Int64()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "View: "+palette.Mode.Next().String()) {
			palette.Mode = palette.Mode.Next()
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and reports whether the value changed.
func slider(y *float32, x float32, label, format string, value *float32, lo, hi float32) bool {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		*value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if next == *value {
		return false
	}
	*value = next
	return true
}
