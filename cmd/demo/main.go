package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"cond-render/core"
	"cond-render/renderer"
)

func main() {
	modelPath := flag.String("model", "", "optional .obj/.gltf/.glb model to render instead of the built-in cube")
	noValidation := flag.Bool("no-validation", false, "disable Vulkan validation layers")
	noVSync := flag.Bool("no-vsync", false, "prefer mailbox presentation over FIFO")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	windowConfig := core.DefaultWindowConfig()
	window, err := core.NewWindow(windowConfig)
	if err != nil {
		logger.Fatal("failed to create window", zap.Error(err))
	}
	defer window.Destroy()

	engineConfig := renderer.DefaultEngineConfig()
	engineConfig.ModelPath = *modelPath
	engineConfig.EnableValidation = !*noValidation
	engineConfig.VSync = !*noVSync

	engine, err := renderer.NewEngine(window, logger, engineConfig)
	if err != nil {
		logger.Fatal("failed to create engine", zap.Error(err))
	}
	defer engine.Destroy()

	fmt.Println("Controls:")
	fmt.Println("  C     - toggle a visibility override")
	fmt.Println("  Space - return to the automatic visibility cycle")
	fmt.Println("  ESC   - exit")

	lastFrame := time.Now()
	fpsTimer := lastFrame
	frameCount := 0
	cWasDown := false

	for !window.ShouldClose() {
		window.PollEvents()

		if window.IsKeyPressed(core.KeyEscape) {
			break
		}

		// Debounced so one press toggles once.
		cDown := window.IsKeyPressed(core.KeyC)
		if cDown && !cWasDown {
			engine.Schedule.ToggleOverride()
			logger.Info("visibility override toggled",
				zap.Bool("visible", engine.Schedule.Visible()))
		}
		cWasDown = cDown

		if window.IsKeyPressed(core.KeySpace) && engine.Schedule.Overridden() {
			engine.Schedule.ClearOverride()
			logger.Info("visibility override cleared")
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		engine.Update(dt)
		if err := engine.Render(); err != nil {
			logger.Error("render failed", zap.Error(err))
			break
		}

		frameCount++
		if now.Sub(fpsTimer) >= time.Second {
			window.SetTitle(fmt.Sprintf("%s - %d FPS", windowConfig.Title, frameCount))
			frameCount = 0
			fpsTimer = now
		}
	}
}
