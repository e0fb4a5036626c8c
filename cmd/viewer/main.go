// Command viewer renders a scene layout top-down and drives it with the same
// systems the server runs, for checking layouts and movement without a
// headset.
package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"careerxr/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	TickRate     = 60
)

func main() {
	_ = godotenv.Load()

	layoutName := flag.String("layout", "profession-room", "layout to load")
	layoutDir := flag.String("layout-dir", os.Getenv("SCENE_LAYOUT_DIR"), "directory with extra layout YAML files")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	var dir fs.FS
	if *layoutDir != "" {
		dir = os.DirFS(*layoutDir)
	}
	layouts, err := scene.LoadLayouts(dir)
	if err != nil {
		logger.Fatalf("[Viewer] load layouts failed | err=%v", err)
	}
	l, err := layouts.Get(*layoutName)
	if err != nil {
		logger.Fatalf("[Viewer] %v", err)
	}

	opts := scene.DefaultOptions()
	opts.Logger = logger
	game := NewGame(scene.NewWorld(l, opts), logger)

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("CareerXR - " + l.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TickRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatalf("[Viewer] %v", err)
	}
}
