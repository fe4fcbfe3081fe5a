package main

import (
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/heavypockets/ecs/device"
	"github.com/sirupsen/logrus"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "hot reload prefabs and scripts from disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	musicIntro := flag.String("music-intro", "", "intro track played once (.wav or .ogg)")
	musicLoop := flag.String("music-loop", "", "track looped after the intro (.wav or .ogg)")
	volume := flag.Float64("volume", 0.6, "music volume in [0, 1]")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("heavy pockets")

	game, err := NewGame(Config{
		Level: *levelName,
		Debug: *debug,
		Watch: *watch,
		Music: device.MusicConfig{IntroPath: *musicIntro, LoopPath: *musicLoop, Volume: *volume},
	}, log)
	if err != nil {
		log.WithError(err).Fatal("start game")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("run game")
	}
}
