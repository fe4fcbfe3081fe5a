package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var (
	ErrNoLevels     = errors.New("levels: no levels embedded")
	ErrInvalidLevel = errors.New("levels: invalid level")
)

// Level is one stage in world units, y-up, origin at the bottom left.
type Level struct {
	Name      string          `json:"name"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Spawn     Point           `json:"spawn"`
	Platforms []Rect          `json:"platforms"`
	Slopes    []Slope         `json:"slopes,omitempty"`
	Coins     []Point         `json:"coins,omitempty"`
	Hazards   []Rect          `json:"hazards,omitempty"`
	Goal      *Rect           `json:"goal,omitempty"`
	Slimes    []SlimeSpawn    `json:"slimes,omitempty"`
	Parallax  []ParallaxLayer `json:"parallax,omitempty"`
	Final     bool            `json:"final,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is anchored at its bottom-left corner.
type Rect struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
	Tag string  `json:"tag,omitempty"`
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Slope is a ramp segment with a rounding radius.
type Slope struct {
	AX     float64 `json:"ax"`
	AY     float64 `json:"ay"`
	BX     float64 `json:"bx"`
	BY     float64 `json:"by"`
	Radius float64 `json:"radius"`
}

type SlimeSpawn struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	MinX  float64 `json:"min_x"`
	MaxX  float64 `json:"max_x"`
	Speed float64 `json:"speed"`
}

type ParallaxLayer struct {
	Color    Color   `json:"color"`
	Strength float64 `json:"strength"`
	Y        float64 `json:"y"`
	Height   float64 `json:"height"`
}

// Color decodes "#rrggbb" or "#rrggbbaa".
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("color must be a string: %w", err)
	}
	parsed, err := ParseColor(raw)
	if err != nil {
		return err
	}
	c.NRGBA = parsed
	return nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A))
}

func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}
	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(hex[start:start+2], 16, 8)
		return uint8(v), err
	}
	var out color.NRGBA
	var err error
	if out.R, err = parse(0); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	if out.G, err = parse(2); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	if out.B, err = parse(4); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	out.A = 255
	if len(hex) == 8 {
		if out.A, err = parse(6); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
		}
	}
	return out, nil
}

// Names lists the embedded levels in play order.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Next returns the level after name, or false if name is the last one.
func Next(name string) (string, bool) {
	names := Names()
	for i, n := range names {
		if n == name && i+1 < len(names) {
			return names[i+1], true
		}
	}
	return "", false
}

// First returns the first level in play order.
func First() (string, error) {
	names := Names()
	if len(names) == 0 {
		return "", ErrNoLevels
	}
	return names[0], nil
}

func Load(name string) (*Level, error) {
	if path.Ext(name) == "" {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Parse(name, data)
}

func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(name, path.Ext(name))
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: validate %s: %w", name, err)
	}
	return &lvl, nil
}

// Validate reports every geometry problem in the level.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	var errs []error
	if l.Width <= 0 || l.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %vx%v", ErrInvalidLevel, l.Width, l.Height))
	}
	if !l.contains(l.Spawn) {
		errs = append(errs, fmt.Errorf("%w: spawn (%v,%v) outside level", ErrInvalidLevel, l.Spawn.X, l.Spawn.Y))
	}
	for i, r := range l.Platforms {
		if r.W <= 0 || r.H <= 0 {
			errs = append(errs, fmt.Errorf("%w: platform %d has size %vx%v", ErrInvalidLevel, i, r.W, r.H))
		}
	}
	for i, r := range l.Hazards {
		if r.W <= 0 || r.H <= 0 {
			errs = append(errs, fmt.Errorf("%w: hazard %d has size %vx%v", ErrInvalidLevel, i, r.W, r.H))
		}
	}
	for i, s := range l.Slopes {
		if s.AX == s.BX && s.AY == s.BY {
			errs = append(errs, fmt.Errorf("%w: slope %d is a point", ErrInvalidLevel, i))
		}
		if s.Radius < 0 {
			errs = append(errs, fmt.Errorf("%w: slope %d has negative radius", ErrInvalidLevel, i))
		}
	}
	for i, c := range l.Coins {
		if !l.contains(c) {
			errs = append(errs, fmt.Errorf("%w: coin %d outside level", ErrInvalidLevel, i))
		}
	}
	for i, s := range l.Slimes {
		if s.MinX > s.MaxX {
			errs = append(errs, fmt.Errorf("%w: slime %d patrol range inverted", ErrInvalidLevel, i))
		}
		if s.Speed < 0 {
			errs = append(errs, fmt.Errorf("%w: slime %d has negative speed", ErrInvalidLevel, i))
		}
	}
	if l.Goal != nil && (l.Goal.W <= 0 || l.Goal.H <= 0) {
		errs = append(errs, fmt.Errorf("%w: goal has size %vx%v", ErrInvalidLevel, l.Goal.W, l.Goal.H))
	}
	if l.Goal == nil && !l.Final {
		errs = append(errs, fmt.Errorf("%w: level has no goal and is not final", ErrInvalidLevel))
	}
	return errors.Join(errs...)
}

func (l *Level) contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= l.Width && p.Y <= l.Height
}
