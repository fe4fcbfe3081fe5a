package main

import (
	"flag"
	"os"

	"github.com/milk9111/heavypockets/ecs/entity"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "", "level name in levels/ (defaults to the first level)")
	scriptPath := flag.String("script", "", "YAML input script")
	every := flag.Int("every", 10, "log telemetry every N frames (0 disables)")
	jsonOut := flag.Bool("json", false, "log as JSON")
	debug := flag.Bool("debug", false, "log gameplay events")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	if *jsonOut {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *scriptPath == "" {
		log.Fatal("-script is required")
	}
	script, err := LoadScript(*scriptPath)
	if err != nil {
		log.WithError(err).Fatal("load script")
	}

	name := *levelName
	if name == "" {
		if name, err = levels.First(); err != nil {
			log.WithError(err).Fatal("no levels")
		}
	}
	lvl, err := levels.Load(name)
	if err != nil {
		log.WithError(err).Fatal("load level")
	}
	specs, err := entity.LoadPrefabs()
	if err != nil {
		log.WithError(err).Fatal("load prefabs")
	}

	res, err := Run(lvl, specs, script, *every, log)
	if err != nil {
		log.WithError(err).Fatal("simulate")
	}
	log.WithFields(logrus.Fields{
		"frames":    res.Frames,
		"deaths":    res.Deaths,
		"coins":     res.Coins,
		"completed": res.Completed,
		"x":         res.X,
		"y":         res.Y,
	}).Info("done")
}
