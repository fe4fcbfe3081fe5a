package system

import (
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

// LevelCompleteSystem banks the session coins the first time the player
// reaches the goal and freezes the controller. The request stays on the
// player for the game loop to pick up.
type LevelCompleteSystem struct {
	session   *levels.Session
	log       logrus.FieldLogger
	completed bool
}

func NewLevelCompleteSystem(session *levels.Session, log logrus.FieldLogger) *LevelCompleteSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if session == nil {
		session = levels.NewSession()
	}
	return &LevelCompleteSystem{session: session, log: log}
}

func (s *LevelCompleteSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.completed {
		return
	}

	e, ok := ecs.First(w, component.LevelCompleteRequestComponent.Kind())
	if !ok {
		return
	}
	s.completed = true

	collected := s.session.CurrentCoins
	s.session.CompleteLevel()
	if c, ok := ecs.Get(w, e, component.ControllerComponent.Kind()); ok && c.Controller != nil {
		c.Controller.SetEnabled(false)
	}

	s.log.WithFields(logrus.Fields{
		"level":     s.session.LevelName,
		"collected": collected,
		"total":     s.session.TotalCollected,
	}).Info("level complete")
	w.Events().Push(ecs.Event{Type: ecs.EventLevelCompleted, Entity: e, Data: collected})
}

// Completed reports whether the goal has been reached in this world.
func (s *LevelCompleteSystem) Completed() bool {
	return s != nil && s.completed
}
