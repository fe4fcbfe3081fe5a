package entity

import (
	"fmt"

	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/prefabs"
	"github.com/sirupsen/logrus"
)

// Prefabs are the decoded entity specs a level is built from.
type Prefabs struct {
	Player *prefabs.PlayerSpec
	Slime  *prefabs.SlimeSpec
	Camera *prefabs.CameraSpec
}

func LoadPrefabs() (*Prefabs, error) {
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	slimeSpec, err := prefabs.LoadSlimeSpec()
	if err != nil {
		return nil, err
	}
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	return &Prefabs{Player: playerSpec, Slime: slimeSpec, Camera: cameraSpec}, nil
}

// LoadLevelToWorld builds the physics space and every entity of lvl into w.
// It returns the player entity, or 0 for a final level, which has no player.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, specs *Prefabs, session *levels.Session, log logrus.FieldLogger) (ecs.Entity, error) {
	if w == nil || lvl == nil || specs == nil {
		return 0, fmt.Errorf("level: missing world, level or prefabs")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("level", lvl.Name)
	ecs.NewPhysicsWorld(w, lvl, log)

	for _, layer := range lvl.Parallax {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.ParallaxComponent.Kind(), &component.Parallax{
			Color:    layer.Color.NRGBA,
			Strength: layer.Strength,
			Y:        layer.Y,
			Height:   layer.Height,
		}); err != nil {
			return 0, fmt.Errorf("level: add parallax: %w", err)
		}
	}

	if _, err := NewCameraAt(w, specs.Camera, lvl.Spawn.X, lvl.Spawn.Y); err != nil {
		return 0, err
	}
	if _, err := NewCoinCounter(w, session.CurrentCoins, len(lvl.Coins)); err != nil {
		return 0, err
	}
	if lvl.Final {
		return 0, nil
	}

	for i, c := range lvl.Coins {
		if _, err := NewCoin(w, i, c); err != nil {
			return 0, err
		}
	}
	for _, h := range lvl.Hazards {
		if _, err := NewHazard(w, h); err != nil {
			return 0, err
		}
	}
	if lvl.Goal != nil {
		if _, err := NewGoal(w, *lvl.Goal); err != nil {
			return 0, err
		}
	}
	for _, s := range lvl.Slimes {
		if _, err := NewSlime(w, specs.Slime, s); err != nil {
			return 0, err
		}
	}

	p, err := NewPlayerAt(w, specs.Player, lvl.Spawn, len(lvl.Coins), log)
	if err != nil {
		return 0, err
	}
	log.WithFields(logrus.Fields{
		"coins":   len(lvl.Coins),
		"slimes":  len(lvl.Slimes),
		"hazards": len(lvl.Hazards),
	}).Info("level built")
	return p, nil
}
