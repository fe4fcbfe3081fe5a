package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/heavypockets/player"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type ColliderSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type SensorSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PlayerSpec struct {
	Name          string        `yaml:"name"`
	Mass          float64       `yaml:"mass"`
	Collider      ColliderSpec  `yaml:"collider"`
	GroundSensor  SensorSpec    `yaml:"ground_sensor"`
	Color         *YAMLColor    `yaml:"color"`
	Tuning        player.Tuning `yaml:"tuning"`
	DeathSpin     float64       `yaml:"death_spin"`
	DeathFriction float64       `yaml:"death_friction"`
	ReloadDelay   float64       `yaml:"reload_delay"`
	// ProbeDistance is how far below the feet the ground ray reaches.
	ProbeDistance float64 `yaml:"probe_distance"`
}

// DecodePlayerSpec decodes player.yaml on top of the default tuning, so keys
// missing from the file keep their defaults.
func DecodePlayerSpec(data []byte) (*PlayerSpec, error) {
	spec := PlayerSpec{
		Name:          "player",
		Mass:          1,
		Collider:      ColliderSpec{Width: 0.8, Height: 1},
		GroundSensor:  SensorSpec{Width: 0.7, Height: 0.1},
		Tuning:        player.DefaultTuning(),
		DeathSpin:     720,
		DeathFriction: 10,
		ReloadDelay:   2,
		ProbeDistance: 0.5,
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal player.yaml: %w", err)
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("prefabs: player.yaml: collider must have a positive size")
	}
	if spec.Mass <= 0 {
		spec.Mass = 1
	}
	if err := spec.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: player.yaml: %w", err)
	}
	return &spec, nil
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	data, err := Load("player.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load player.yaml: %w", err)
	}
	return DecodePlayerSpec(data)
}

type SlimeSpec struct {
	Name     string       `yaml:"name"`
	Script   string       `yaml:"script"`
	Mass     float64      `yaml:"mass"`
	Speed    float64      `yaml:"speed"`
	Collider ColliderSpec `yaml:"collider"`
	Color    *YAMLColor   `yaml:"color"`
}

func LoadSlimeSpec() (*SlimeSpec, error) {
	spec, err := LoadSpec[SlimeSpec]("slime.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("prefabs: slime.yaml: collider must have a positive size")
	}
	if spec.Mass <= 0 {
		spec.Mass = 1
	}
	return &spec, nil
}

type OffsetSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CameraSpec struct {
	Name       string     `yaml:"name"`
	Offset     OffsetSpec `yaml:"offset"`
	Smoothness float64    `yaml:"smoothness"`
	Zoom       float64    `yaml:"zoom"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	return &spec, nil
}

type HUDSpec struct {
	X            float64    `yaml:"x"`
	Y            float64    `yaml:"y"`
	BarWidth     float64    `yaml:"bar_width"`
	BarHeight    float64    `yaml:"bar_height"`
	IconSize     float64    `yaml:"icon_size"`
	TextColor    *YAMLColor `yaml:"text_color"`
	BarColor     *YAMLColor `yaml:"bar_color"`
	BarBack      *YAMLColor `yaml:"bar_back"`
	DashColor    *YAMLColor `yaml:"dash_color"`
	DoubleColor  *YAMLColor `yaml:"double_jump_color"`
	DisabledTint *YAMLColor `yaml:"disabled_color"`
}

func LoadHUDSpec() (*HUDSpec, error) {
	spec, err := LoadSpec[HUDSpec]("hud.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

// Or returns the decoded color, or fallback when the key was absent.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
