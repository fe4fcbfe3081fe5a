package main

import (
	"fmt"
	"os"

	"github.com/milk9111/heavypockets/player"
	"gopkg.in/yaml.v3"
)

// Segment holds one input for a number of frames. Jump and dash are pressed
// on the first frame of the segment and jump stays held for the rest of it.
type Segment struct {
	Frames int     `yaml:"frames"`
	Move   float64 `yaml:"move"`
	Jump   bool    `yaml:"jump"`
	Slide  bool    `yaml:"slide"`
	Dash   bool    `yaml:"dash"`
}

type Script []Segment

func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("simulate: parse script: %w", err)
	}
	for i, seg := range s {
		if seg.Frames <= 0 {
			return nil, fmt.Errorf("simulate: segment %d: frames must be positive", i)
		}
	}
	return s, nil
}

func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simulate: read script: %w", err)
	}
	return ParseScript(data)
}

// Frames returns the total number of frames in the script.
func (s Script) Frames() int {
	n := 0
	for _, seg := range s {
		n += seg.Frames
	}
	return n
}

// Input returns the input frame for segment frame i.
func (seg Segment) Input(i int) player.InputFrame {
	return player.InputFrame{
		MoveAxis:    seg.Move,
		JumpPressed: seg.Jump && i == 0,
		JumpHeld:    seg.Jump,
		SlideHeld:   seg.Slide,
		DashPressed: seg.Dash && i == 0,
	}.Normalized()
}
