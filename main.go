package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rendererupdate/ecs"
)

func main() {
	scene := flag.String("scene", "demo.yaml", "scene file in prefabs/")
	debug := flag.Bool("debug", false, "show the renderer overlay and log at debug level")
	watch := flag.Bool("watch", false, "reload scenes and scripts when files under prefabs/ change")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	ecs.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("renderer update")

	game, err := NewGame(*scene, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
