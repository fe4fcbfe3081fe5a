package device

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

// TelemetryCopier copies the player controller snapshot to the clipboard as
// YAML when F2 is pressed.
type TelemetryCopier struct {
	log   logrus.FieldLogger
	ready bool
}

func NewTelemetryCopier(log logrus.FieldLogger) *TelemetryCopier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	t := &TelemetryCopier{log: log.WithField("system", "telemetry")}
	if err := clipboard.Init(); err != nil {
		t.log.WithError(err).Warn("clipboard unavailable")
		return t
	}
	t.ready = true
	return t
}

func (t *TelemetryCopier) Update(w *ecs.World) {
	if t == nil || w == nil || !inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		return
	}
	text, err := SnapshotYAML(w)
	if err != nil {
		t.log.WithError(err).Warn("snapshot")
		return
	}
	if !t.ready {
		t.log.Info("\n" + text)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	t.log.Info("controller snapshot copied to clipboard")
}

// SnapshotYAML renders the first player's controller telemetry.
func SnapshotYAML(w *ecs.World) (string, error) {
	p, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return "", fmt.Errorf("no player")
	}
	c, ok := ecs.Get(w, p, component.ControllerComponent.Kind())
	if !ok || c.Controller == nil {
		return "", fmt.Errorf("player has no controller")
	}
	b, err := yaml.Marshal(c.Controller.Snapshot())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
